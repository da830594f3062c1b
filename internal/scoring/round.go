package scoring

import (
	"math"

	"github.com/san-kum/physlab/internal/gfx"
)

// Event is one scoring evaluation, not yet applied to any state.
type Event struct {
	Result AccuracyResult
	Actual float64
	Target float64
	Anchor gfx.Point
}

// Evaluate grades actual against target. It has no side effects.
func Evaluate(actual, target, toleranceScale float64, bands Bands, anchor gfx.Point) Event {
	if len(bands) == 0 {
		bands = DefaultBands
	}
	return Event{
		Result: bands.Score(actual, target, toleranceScale),
		Actual: actual,
		Target: target,
		Anchor: anchor,
	}
}

// Round is a single challenge attempt over one run. It fires at most once:
// either when an observed value lands inside the window or crosses the
// target between two samples, or when the run ends.
type Round struct {
	Target    float64
	Window    float64
	Tolerance float64
	Bands     Bands

	prev    float64
	hasPrev bool
	fired   bool
}

func NewRound(target, window, tolerance float64, bands Bands) *Round {
	return &Round{Target: target, Window: window, Tolerance: tolerance, Bands: bands}
}

func (r *Round) Fired() bool { return r.fired }

// Observe feeds one sample. When the round triggers it returns the event
// for whichever of the current and previous sample was closer.
func (r *Round) Observe(actual float64, anchor gfx.Point) (Event, bool) {
	if r.fired || !finite(actual) || !finite(r.Target) {
		return Event{}, false
	}
	sample := actual
	hit := r.Window > 0 && ErrorMagnitude(actual, r.Target, 0) <= r.Window
	if !hit && r.hasPrev {
		a, b := r.prev-r.Target, actual-r.Target
		if (a < 0 && b > 0) || (a > 0 && b < 0) {
			hit = true
			if math.Abs(a) < math.Abs(b) {
				sample = r.prev
			}
		}
	}
	r.prev, r.hasPrev = actual, true
	if !hit {
		return Event{}, false
	}
	r.fired = true
	return Evaluate(sample, r.Target, r.Tolerance, r.Bands, anchor), true
}

// Finish scores actual if the round has not fired yet.
func (r *Round) Finish(actual float64, anchor gfx.Point) (Event, bool) {
	if r.fired {
		return Event{}, false
	}
	r.fired = true
	return Evaluate(actual, r.Target, r.Tolerance, r.Bands, anchor), true
}
