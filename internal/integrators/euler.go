package integrators

import "github.com/san-kum/physlab/internal/dynamo"

// Euler is the explicit forward Euler step x += dt*f(x).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	dx := sys.Derive(x, p)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
