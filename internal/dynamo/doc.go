// Package dynamo defines the contract between the frame driver and the
// interactive simulations it runs.
//
//   - [State]: the physical state vector, owned by the driver
//   - [Params]: control parameters the host UI and drag handles edit
//   - [System]: dX/dt for a state, stepped by an [Integrator]
//   - [Simulation]: update, draw and terminal predicate for one experiment
//   - [Draggable], [Challenger], [Emitter], [Hamiltonian]: optional capabilities
//
// # Example
//
//	s := physics.NewWorkEnergy()
//	p := s.Defaults()
//	x := s.Init(p)
//	for !s.Terminal(x, p) {
//		x = s.Update(x, p, 0.02)
//	}
//
// # Thread Safety
//
// Simulations are stateless values; all mutable state lives in the State
// and Params the driver passes in. Drivers themselves are NOT thread-safe.
package dynamo
