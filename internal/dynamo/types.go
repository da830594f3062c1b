package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// At returns s[i], or 0 when the index is out of range.
func (s State) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// System is a set of first-order ODEs dX/dt = f(X, p).
type System interface {
	Derive(x State, p Params) State
}

// SecondOrder marks systems whose state is laid out as Dof positions,
// then Dof velocities, then any auxiliary accumulators.
type SecondOrder interface {
	System
	Dof() int
}

type Integrator interface {
	Step(sys System, x State, p Params, dt float64) State
}
