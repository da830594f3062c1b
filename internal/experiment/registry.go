package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
)

var ErrUnknownSimulation = errors.New("unknown simulation")

type Registry struct {
	sims  map[string]func() dynamo.Simulation
	order []string
}

// NewRegistry returns a registry holding the built-in simulations.
func NewRegistry() *Registry {
	r := &Registry{sims: make(map[string]func() dynamo.Simulation)}

	r.Register("work-energy", func() dynamo.Simulation { return physics.NewWorkEnergy() })
	r.Register("projectile", func() dynamo.Simulation { return physics.NewProjectile() })
	r.Register("spring", func() dynamo.Simulation { return physics.NewSpring() })

	return r
}

// Register adds or replaces a constructor. Registration order is kept for
// hosts that bind number keys to simulations.
func (r *Registry) Register(name string, fn func() dynamo.Simulation) {
	if _, ok := r.sims[name]; !ok {
		r.order = append(r.order, name)
	}
	r.sims[name] = fn
}

func (r *Registry) Get(name string) (dynamo.Simulation, error) {
	fn, ok := r.sims[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSimulation, name)
	}
	return fn(), nil
}

// List returns names in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Sorted returns names alphabetically.
func (r *Registry) Sorted() []string {
	out := r.List()
	sort.Strings(out)
	return out
}
