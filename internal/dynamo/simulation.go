package dynamo

import (
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/particles"
)

// Frame is everything a simulation sees when drawing or hit-testing.
type Frame struct {
	State  State
	Params Params
	Width  float64
	Height float64
	// Time is simulated seconds since the last reset.
	Time float64
	// Handle is the handle being dragged, if any.
	Handle string
	// MeterSliver is the minimum visible meter fill fraction.
	MeterSliver float64
}

// Simulation is one interactive experiment. Implementations hold no
// mutable state of their own.
type Simulation interface {
	Name() string
	Defaults() Params
	Specs() []ParamSpec
	Init(p Params) State
	// Update advances x by one fixed step and returns the new state.
	Update(x State, p Params, dt float64) State
	Draw(ctx gfx.Context, f Frame)
	Terminal(x State, p Params) bool
}

// Draggable simulations expose on-canvas handles.
type Draggable interface {
	// Grab hit-tests a pointer press.
	Grab(f Frame, x, y float64) (handle string, ok bool)
	// Drag maps a pointer position on handle to new params. When reset is
	// true the driver re-initialises state from them and holds physics
	// until the drag ends.
	Drag(f Frame, handle string, x, y float64) (p Params, reset bool)
}

// Challenger simulations can be scored in challenge mode.
type Challenger interface {
	// Measure is the quantity compared against Target each frame.
	Measure(x State, p Params) float64
	Target(x State, p Params) float64
	// ScoreAnchor is where the score popup appears.
	ScoreAnchor(f Frame) gfx.Point
}

// EndScorer challengers are only scored when the run ends.
type EndScorer interface {
	ScoresAtEnd() bool
}

// Emitter simulations spawn particles from a state transition.
type Emitter interface {
	Emit(ps *particles.System, prev State, f Frame, dt float64)
}

// Hamiltonian simulations report total energy so integration drift can be
// measured. NaN means the energy is undefined for x.
type Hamiltonian interface {
	TotalEnergy(x State, p Params) float64
}
