package integrators

import "github.com/san-kum/physlab/internal/dynamo"

// Kinematic is the Euler step used by every interactive simulation:
// velocities first, then positions from the updated velocities.
//
//	v += a*dt
//	x += v*dt
//
// Auxiliary state past the velocities is integrated with plain Euler.
// Systems that are not dynamo.SecondOrder fall back to Euler.
type Kinematic struct {
	euler Euler
}

func NewKinematic() *Kinematic {
	return &Kinematic{}
}

func (k *Kinematic) Step(sys dynamo.System, x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	so, ok := sys.(dynamo.SecondOrder)
	if !ok {
		return k.euler.Step(sys, x, p, dt)
	}
	n := so.Dof()
	if n <= 0 || 2*n > len(x) {
		return k.euler.Step(sys, x, p, dt)
	}

	dx := sys.Derive(x, p)
	result := make(dynamo.State, len(x))
	for i := 0; i < n; i++ {
		v := x[n+i] + dx[n+i]*dt
		result[n+i] = v
		result[i] = x[i] + v*dt
	}
	for i := 2 * n; i < len(x); i++ {
		result[i] = x[i] + dx[i]*dt
	}
	return result
}
