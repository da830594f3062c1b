// Package scoring grades predicted or achieved quantities against a target
// and keeps the running challenge tally.
package scoring

import (
	"errors"
	"fmt"
	"math"
)

// zeroTarget is the magnitude below which a target is treated as zero and
// absolute error replaces relative error.
const zeroTarget = 1e-9

const LabelOff = "Off"

var ErrInvalidBands = errors.New("invalid tolerance bands")

// Band awards Points for any error at or below MaxError.
type Band struct {
	Label    string  `yaml:"label"`
	MaxError float64 `yaml:"max_error"`
	Points   int     `yaml:"points"`
}

// Bands are ordered from tightest to loosest. Errors past the last band
// classify as LabelOff with zero points.
type Bands []Band

// DefaultBands: within 3% is Perfect, 10% Great, 20% Good.
var DefaultBands = Bands{
	{Label: "Perfect", MaxError: 0.03, Points: 100},
	{Label: "Great", MaxError: 0.10, Points: 60},
	{Label: "Good", MaxError: 0.20, Points: 25},
}

// AccuracyResult is the outcome of one evaluation.
type AccuracyResult struct {
	Label          string
	Points         int
	ErrorMagnitude float64
}

// Correct reports whether the result counts toward streaks.
func (r AccuracyResult) Correct() bool { return r.Points > 0 }

func (r AccuracyResult) String() string {
	if r.Points > 0 {
		return fmt.Sprintf("%s! +%d", r.Label, r.Points)
	}
	return r.Label
}

// Validate checks that bands are non-empty with strictly increasing,
// finite, non-negative thresholds.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidBands)
	}
	prev := -1.0
	for i, band := range b {
		if band.Label == "" {
			return fmt.Errorf("%w: band %d has no label", ErrInvalidBands, i)
		}
		if math.IsNaN(band.MaxError) || math.IsInf(band.MaxError, 0) || band.MaxError < 0 {
			return fmt.Errorf("%w: band %q threshold %v", ErrInvalidBands, band.Label, band.MaxError)
		}
		if band.MaxError <= prev {
			return fmt.Errorf("%w: band %q is not looser than the one before it", ErrInvalidBands, band.Label)
		}
		if band.Points < 0 {
			return fmt.Errorf("%w: band %q has negative points", ErrInvalidBands, band.Label)
		}
		prev = band.MaxError
	}
	return nil
}

// Classify maps an error magnitude to the first band that admits it.
func (b Bands) Classify(errMag float64) AccuracyResult {
	if !math.IsNaN(errMag) {
		for _, band := range b {
			if errMag <= band.MaxError {
				return AccuracyResult{Label: band.Label, Points: band.Points, ErrorMagnitude: errMag}
			}
		}
	} else {
		errMag = math.Inf(1)
	}
	return AccuracyResult{Label: LabelOff, ErrorMagnitude: errMag}
}

// Score grades actual against target using these bands.
func (b Bands) Score(actual, target, toleranceScale float64) AccuracyResult {
	return b.Classify(ErrorMagnitude(actual, target, toleranceScale))
}

// CalculateAccuracy grades actual against target with DefaultBands.
func CalculateAccuracy(actual, target, toleranceScale float64) AccuracyResult {
	return DefaultBands.Score(actual, target, toleranceScale)
}

// ErrorMagnitude is |actual-target| relative to |target|, or absolute when
// the target is effectively zero, divided by toleranceScale when that is
// positive and finite. Non-finite inputs yield +Inf.
func ErrorMagnitude(actual, target, toleranceScale float64) float64 {
	if !finite(actual) || !finite(target) {
		return math.Inf(1)
	}
	e := math.Abs(actual - target)
	if t := math.Abs(target); t >= zeroTarget {
		e /= t
	}
	if toleranceScale > 0 && !math.IsInf(toleranceScale, 0) {
		e /= toleranceScale
	}
	return e
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
