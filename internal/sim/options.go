package sim

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/physlab/internal/audio"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/particles"
	"github.com/san-kum/physlab/internal/scoring"
	"github.com/san-kum/physlab/internal/surface"
)

type Option func(*Driver)

// WithDt sets the fixed physics step in seconds.
func WithDt(dt float64) Option {
	return func(d *Driver) {
		if dt > 0 {
			d.dt = dt
		}
	}
}

// WithParams overlays values onto the simulation defaults.
func WithParams(values map[string]float64) Option {
	return func(d *Driver) {
		for k, v := range values {
			d.params.Values[k] = v
		}
	}
}

func WithMode(m dynamo.Mode) Option {
	return func(d *Driver) { d.params.Mode = m }
}

func WithBands(b scoring.Bands) Option {
	return func(d *Driver) {
		if len(b) > 0 {
			d.bands = b
		}
	}
}

func WithTolerance(tol float64) Option {
	return func(d *Driver) { d.tolerance = tol }
}

// WithWindow sets the relative error at which a live challenge fires.
func WithWindow(w float64) Option {
	return func(d *Driver) { d.window = w }
}

func WithParticles(ps *particles.System) Option {
	return func(d *Driver) {
		if ps != nil {
			d.ps = ps
		}
	}
}

func WithPopupLifetime(lt time.Duration) Option {
	return func(d *Driver) { d.popupLife = lt }
}

func WithMeterSliver(f float64) Option {
	return func(d *Driver) { d.sliver = f }
}

func WithClamp(c surface.Clamp) Option {
	return func(d *Driver) { d.clamp = c }
}

func WithBackground(c gfx.Color) Option {
	return func(d *Driver) { d.background = c }
}

func WithAudio(p audio.Player) Option {
	return func(d *Driver) {
		if p != nil {
			d.audio = p
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Prefix: "sim"})
}

// OptionsFromConfig translates the config's engine settings into driver
// options. Logging and audio are wired by the caller.
func OptionsFromConfig(cfg *config.Config) []Option {
	mode, err := dynamo.ParseMode(cfg.Mode)
	if err != nil {
		mode = dynamo.ModeExplore
	}
	return []Option{
		WithDt(cfg.Dt),
		WithParams(cfg.Params),
		WithMode(mode),
		WithBands(cfg.Scoring.Bands),
		WithTolerance(cfg.Scoring.Tolerance),
		WithWindow(cfg.Scoring.Window),
		withParticleConfig(cfg.Particles),
		WithPopupLifetime(cfg.PopupDuration()),
		WithMeterSliver(cfg.Display.MeterMinSliver),
		WithClamp(surface.MaxAspect(cfg.Display.MaxAspect)),
	}
}

// withParticleConfig gives every driver built from the options its own
// particle system.
func withParticleConfig(pc config.ParticleConfig) Option {
	return func(d *Driver) {
		d.ps = particles.NewSystem(particleOptions(pc)...)
	}
}

func particleOptions(pc config.ParticleConfig) []particles.Option {
	opts := []particles.Option{particles.WithCap(pc.Cap)}
	if pc.Seed != 0 {
		opts = append(opts, particles.WithSeed(pc.Seed))
	}
	return opts
}
