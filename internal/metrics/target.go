package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// TargetError is the relative distance between a challenger's measure and
// its target. End-scored challenges report the last frame, live ones the
// closest approach. With no samples it is +Inf.
type TargetError struct {
	name    string
	ch      dynamo.Challenger
	atEnd   bool
	value   float64
	samples int
}

func NewTargetError(ch dynamo.Challenger, atEnd bool) *TargetError {
	return &TargetError{
		name:  "target_error",
		ch:    ch,
		atEnd: atEnd,
		value: math.Inf(1),
	}
}

func (m *TargetError) Name() string { return m.name }

func (m *TargetError) Observe(x dynamo.State, p dynamo.Params, t float64) {
	err := relErr(m.ch.Measure(x, p), m.ch.Target(x, p))
	if math.IsNaN(err) {
		return
	}
	m.samples++
	if m.atEnd || err < m.value {
		m.value = err
	}
}

func (m *TargetError) Value() float64 { return m.value }

func (m *TargetError) Reset() {
	m.value = math.Inf(1)
	m.samples = 0
}

func relErr(actual, target float64) float64 {
	if target == 0 {
		return math.Abs(actual)
	}
	return math.Abs(actual-target) / math.Abs(target)
}

// Peak is the largest measure seen.
type Peak struct {
	name    string
	ch      dynamo.Challenger
	peak    float64
	samples int
}

func NewPeak(ch dynamo.Challenger) *Peak {
	return &Peak{name: "peak", ch: ch}
}

func (m *Peak) Name() string { return m.name }

func (m *Peak) Observe(x dynamo.State, p dynamo.Params, t float64) {
	v := m.ch.Measure(x, p)
	if math.IsNaN(v) {
		return
	}
	if m.samples == 0 || v > m.peak {
		m.peak = v
	}
	m.samples++
}

func (m *Peak) Value() float64 { return m.peak }

func (m *Peak) Reset() {
	m.peak = 0
	m.samples = 0
}
