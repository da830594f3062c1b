// Package particles runs short-lived visual effects: confetti bursts on
// good scores, transfer motes between meters, and fading trails.
package particles

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/physlab/internal/gfx"
)

// DefaultCap bounds the live collection. Emission past it is truncated.
const DefaultCap = 600

type Kind uint8

const (
	KindConfetti Kind = iota
	KindTransfer
	KindTrail
)

func (k Kind) String() string {
	switch k {
	case KindConfetti:
		return "confetti"
	case KindTransfer:
		return "transfer"
	case KindTrail:
		return "trail"
	}
	return "unknown"
}

const (
	gravity       = 420.0
	confettiSpeed = 260.0
	transferJit   = 6.0
)

// EmitParams tunes a single Emit call. Zero fields take per-kind defaults.
type EmitParams struct {
	// Target is the end point of KindTransfer particles.
	Target gfx.Point
	// Color is used for every particle; zero picks from Palette.
	Color   gfx.Color
	Palette []gfx.Color
	// Lifetime in seconds.
	Lifetime float64
	Size     float64
	Speed    float64
}

var confettiPalette = []gfx.Color{
	gfx.Hex("#f87171"),
	gfx.Hex("#fbbf24"),
	gfx.Hex("#34d399"),
	gfx.Hex("#60a5fa"),
	gfx.Hex("#c084fc"),
}

type particle struct {
	kind     Kind
	pos      gfx.Point
	vel      gfx.Point
	start    gfx.Point
	target   gfx.Point
	jitter   gfx.Point
	color    gfx.Color
	size     float64
	life     float64
	progress float64
}

// System owns its particles. Emit adds them and Update is the only
// place they are removed.
type System struct {
	particles []particle
	limit     int
	rng       *rand.Rand
}

type Option func(*System)

// WithCap sets the maximum live particle count.
func WithCap(n int) Option {
	return func(s *System) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithSeed makes emission deterministic.
func WithSeed(seed int64) Option {
	return func(s *System) { s.rng = rand.New(rand.NewSource(seed)) }
}

func NewSystem(opts ...Option) *System {
	s := &System{limit: DefaultCap}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.particles = make([]particle, 0, min(s.limit, 128))
	return s
}

// Emit spawns up to count particles of kind at origin and returns how many
// were added. Negative counts and unknown kinds add nothing; the cap
// truncates the rest.
func (s *System) Emit(kind Kind, origin gfx.Point, count int, p EmitParams) int {
	if count <= 0 || kind > KindTrail || !origin.Finite() {
		return 0
	}
	if kind == KindTransfer && !p.Target.Finite() {
		return 0
	}
	if room := s.limit - len(s.particles); count > room {
		count = room
	}
	for i := 0; i < count; i++ {
		s.particles = append(s.particles, s.spawn(kind, origin, p))
	}
	return max(count, 0)
}

func (s *System) spawn(kind Kind, origin gfx.Point, p EmitParams) particle {
	pt := particle{
		kind:  kind,
		pos:   origin,
		start: origin,
		color: p.Color,
		size:  p.Size,
		life:  p.Lifetime,
	}
	if pt.color == (gfx.Color{}) {
		palette := p.Palette
		if len(palette) == 0 {
			palette = confettiPalette
		}
		pt.color = palette[s.rng.Intn(len(palette))]
	}

	switch kind {
	case KindConfetti:
		speed := p.Speed
		if speed <= 0 {
			speed = confettiSpeed
		}
		// upward cone, +/-60 degrees around straight up
		angle := -math.Pi/2 + (s.rng.Float64()-0.5)*math.Pi*2/3
		v := speed * (0.5 + s.rng.Float64()*0.5)
		pt.vel = gfx.Pt(math.Cos(angle)*v, math.Sin(angle)*v)
		pt.life = orDefault(pt.life, 1.2+s.rng.Float64()*0.6)
		pt.size = orDefault(pt.size, 3+s.rng.Float64()*2)
	case KindTransfer:
		pt.target = p.Target
		pt.jitter = gfx.Pt((s.rng.Float64()-0.5)*2*transferJit, (s.rng.Float64()-0.5)*2*transferJit)
		pt.life = orDefault(pt.life, 0.6+s.rng.Float64()*0.4)
		pt.size = orDefault(pt.size, 2.5)
	case KindTrail:
		pt.life = orDefault(pt.life, 0.8)
		pt.size = orDefault(pt.size, 2)
	}
	return pt
}

// Update advances every particle by dt seconds and drops the ones whose
// progress reached 1. A NaN or negative dt counts as zero.
func (s *System) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	alive := 0
	for i := range s.particles {
		p := &s.particles[i]
		if !(p.life > 0) || math.IsInf(p.life, 0) {
			continue
		}
		p.progress += dt / p.life
		if p.progress >= 1 {
			continue
		}

		switch p.kind {
		case KindConfetti:
			p.vel.Y += gravity * dt
			p.vel.X *= math.Pow(0.4, dt)
			p.pos.X += p.vel.X * dt
			p.pos.Y += p.vel.Y * dt
		case KindTransfer:
			e := easeInOut(p.progress)
			// jitter peaks mid-flight and vanishes at both ends
			wob := math.Sin(p.progress * math.Pi)
			p.pos.X = p.start.X + (p.target.X-p.start.X)*e + p.jitter.X*wob
			p.pos.Y = p.start.Y + (p.target.Y-p.start.Y)*e + p.jitter.Y*wob
		}

		s.particles[alive] = *p
		alive++
	}
	s.particles = s.particles[:alive]
}

// Draw renders each particle with opacity 1-progress, shrinking as it ages.
func (s *System) Draw(ctx gfx.Context) {
	if ctx == nil || len(s.particles) == 0 {
		return
	}
	ctx.Save()
	for i := range s.particles {
		p := &s.particles[i]
		r := p.size * (1 - 0.6*p.progress)
		ctx.SetGlobalAlpha(1 - p.progress)
		ctx.SetFillColor(p.color)
		ctx.BeginPath()
		if p.kind == KindConfetti {
			ctx.RoundRect(p.pos.X-r, p.pos.Y-r/2, 2*r, r, 0)
		} else {
			ctx.Arc(p.pos.X, p.pos.Y, r, 0, 2*math.Pi)
			ctx.ClosePath()
		}
		ctx.Fill()
	}
	ctx.Restore()
}

func (s *System) Clear() { s.particles = s.particles[:0] }

func (s *System) Len() int { return len(s.particles) }

func (s *System) Cap() int { return s.limit }

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func orDefault(v, d float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return d
}
