package dynamo

import (
	"fmt"
	"math"
	"sort"
)

type Mode string

const (
	ModeExplore   Mode = "explore"
	ModeChallenge Mode = "challenge"
)

// ParseMode accepts "explore" or "challenge"; the empty string is explore.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeExplore:
		return ModeExplore, nil
	case ModeChallenge:
		return ModeChallenge, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Params are the control parameters of a simulation. Treat them as values:
// With and Clone return copies.
type Params struct {
	Values map[string]float64
	Mode   Mode
}

func NewParams(values map[string]float64) Params {
	p := Params{Values: make(map[string]float64, len(values)), Mode: ModeExplore}
	for k, v := range values {
		p.Values[k] = v
	}
	return p
}

func (p Params) Clone() Params {
	c := NewParams(p.Values)
	c.Mode = p.Mode
	return c
}

func (p Params) Get(name string) float64 { return p.Values[name] }

// With returns a copy of p with name set to v.
func (p Params) With(name string, v float64) Params {
	c := p.Clone()
	c.Values[name] = v
	return c
}

func (p Params) Challenge() bool { return p.Mode == ModeChallenge }

// Validate reports the first non-finite value, in name order.
func (p Params) Validate() error {
	for _, name := range p.Names() {
		v := p.Values[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ParamError{Name: name, Value: v, Wrapped: ErrInvalidParam}
		}
	}
	return nil
}

func (p Params) Names() []string {
	names := make([]string, 0, len(p.Values))
	for k := range p.Values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParamSpec describes a tunable parameter for host controls.
type ParamSpec struct {
	Name  string
	Label string
	Unit  string
	Min   float64
	Max   float64
	Step  float64
}

// Clamp limits v to [Min, Max].
func (s ParamSpec) Clamp(v float64) float64 {
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Check returns ErrParameterBounds if v is outside the range.
func (s ParamSpec) Check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ParamError{Name: s.Name, Value: v, Wrapped: ErrInvalidParam}
	}
	if v < s.Min || v > s.Max {
		return &ParamError{Name: s.Name, Value: v, Wrapped: ErrParameterBounds}
	}
	return nil
}

// FindSpec looks name up in specs.
func FindSpec(specs []ParamSpec, name string) (ParamSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return ParamSpec{}, false
}
