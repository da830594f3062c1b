package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// EnergyDrift is the largest relative departure of total energy from its
// first defined value. Physical losses such as damping count as drift.
type EnergyDrift struct {
	name     string
	h        dynamo.Hamiltonian
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(h dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		h:    h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, p dynamo.Params, t float64) {
	energy := e.h.TotalEnergy(x, p)
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return
	}

	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

// Current is the most recent defined energy.
func (e *EnergyDrift) Current() float64 { return e.current }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.current = 0
	e.maxDrift = 0
	e.samples = 0
}
