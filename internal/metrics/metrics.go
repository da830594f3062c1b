package metrics

import (
	"github.com/san-kum/physlab/internal/dynamo"
)

// Metric observes a run one recorded frame at a time.
type Metric interface {
	Name() string
	Observe(x dynamo.State, p dynamo.Params, t float64)
	Value() float64
	Reset()
}

// For returns the metrics that apply to s.
func For(s dynamo.Simulation) []Metric {
	var ms []Metric
	if h, ok := s.(dynamo.Hamiltonian); ok {
		ms = append(ms, NewEnergyDrift(h))
	}
	if ch, ok := s.(dynamo.Challenger); ok {
		_, atEnd := s.(dynamo.EndScorer)
		ms = append(ms, NewTargetError(ch, atEnd), NewPeak(ch))
	}
	return ms
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
