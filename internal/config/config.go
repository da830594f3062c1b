package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/scoring"
)

const (
	DefaultSimulation     = "work-energy"
	DefaultDt             = 0.02
	DefaultFPS            = 60
	DefaultMode           = "explore"
	DefaultTolerance      = 1.0
	DefaultWindow         = 0.03
	DefaultParticleCap    = 600
	DefaultPopupLifetime  = 1.4
	DefaultMeterMinSliver = 0.02
	DefaultMaxAspect      = 0.75
	DefaultVolume         = 0.6
	DefaultTheme          = "cyberpunk"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Simulation string             `yaml:"simulation"`
	Dt         float64            `yaml:"dt"`
	FPS        int                `yaml:"fps"`
	Mode       string             `yaml:"mode"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Scoring    ScoringConfig      `yaml:"scoring"`
	Particles  ParticleConfig     `yaml:"particles"`
	Display    DisplayConfig      `yaml:"display"`
	Audio      AudioConfig        `yaml:"audio"`
}

type ScoringConfig struct {
	Bands scoring.Bands `yaml:"bands"`
	// Tolerance divides the error before banding; 1 leaves it unchanged.
	Tolerance float64 `yaml:"tolerance"`
	// Window is the relative error at which a live challenge fires.
	Window float64 `yaml:"window"`
}

type ParticleConfig struct {
	Cap  int   `yaml:"cap"`
	Seed int64 `yaml:"seed"`
}

type DisplayConfig struct {
	PopupLifetime  float64 `yaml:"popup_lifetime"`
	MeterMinSliver float64 `yaml:"meter_min_sliver"`
	MaxAspect      float64 `yaml:"max_aspect"`
	Theme          string  `yaml:"theme"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

func DefaultConfig() *Config {
	bands := make(scoring.Bands, len(scoring.DefaultBands))
	copy(bands, scoring.DefaultBands)
	return &Config{
		Simulation: DefaultSimulation,
		Dt:         DefaultDt,
		FPS:        DefaultFPS,
		Mode:       DefaultMode,
		Scoring: ScoringConfig{
			Bands:     bands,
			Tolerance: DefaultTolerance,
			Window:    DefaultWindow,
		},
		Particles: ParticleConfig{Cap: DefaultParticleCap},
		Display: DisplayConfig{
			PopupLifetime:  DefaultPopupLifetime,
			MeterMinSliver: DefaultMeterMinSliver,
			MaxAspect:      DefaultMaxAspect,
			Theme:          DefaultTheme,
		},
		Audio: AudioConfig{Enabled: true, Volume: DefaultVolume},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges. It does not know which simulations exist; the
// registry rejects unknown names.
func (c *Config) Validate() error {
	if c.Simulation == "" {
		return fmt.Errorf("%w: simulation is required", ErrInvalidConfig)
	}
	if !(c.Dt > 0) || c.Dt > 0.1 {
		return fmt.Errorf("%w: dt must be in (0, 0.1], got %v", ErrInvalidConfig, c.Dt)
	}
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("%w: fps must be in [1, 240], got %d", ErrInvalidConfig, c.FPS)
	}
	if c.Mode != "explore" && c.Mode != "challenge" {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	for name, v := range c.Params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: param %s is not finite", ErrInvalidConfig, name)
		}
	}
	if err := c.Scoring.Bands.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !(c.Scoring.Tolerance > 0) {
		return fmt.Errorf("%w: scoring tolerance must be positive", ErrInvalidConfig)
	}
	if c.Scoring.Window < 0 {
		return fmt.Errorf("%w: scoring window must not be negative", ErrInvalidConfig)
	}
	if c.Particles.Cap < 0 {
		return fmt.Errorf("%w: particle cap must not be negative", ErrInvalidConfig)
	}
	if c.Display.PopupLifetime < 0 {
		return fmt.Errorf("%w: popup lifetime must not be negative", ErrInvalidConfig)
	}
	if c.Display.MeterMinSliver < 0 || c.Display.MeterMinSliver > 1 {
		return fmt.Errorf("%w: meter min sliver must be in [0, 1]", ErrInvalidConfig)
	}
	if c.Audio.Volume < 0 {
		return fmt.Errorf("%w: volume must not be negative", ErrInvalidConfig)
	}
	return nil
}

// PopupDuration is the popup lifetime as a time.Duration.
func (c *Config) PopupDuration() time.Duration {
	return time.Duration(c.Display.PopupLifetime * float64(time.Second))
}

// FrameInterval is the wall-clock time between display frames.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// MergeParams overlays params onto the config's own, returning a new map.
func (c *Config) MergeParams(params map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(c.Params)+len(params))
	for k, v := range c.Params {
		out[k] = v
	}
	for k, v := range params {
		out[k] = v
	}
	return out
}
