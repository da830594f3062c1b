package sim

import (
	"testing"
	"time"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/particles"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0.01
	cfg.Mode = "challenge"
	cfg.Params = map[string]float64{"rate": 2}
	cfg.Particles.Seed = 7

	opts := OptionsFromConfig(cfg)
	a := NewDriver(ramp{}, opts...)
	b := NewDriver(ramp{}, opts...)

	if a.Dt() != 0.01 {
		t.Errorf("dt = %v, want 0.01", a.Dt())
	}
	if a.Params().Mode != dynamo.ModeChallenge || a.Params().Get("rate") != 2 {
		t.Errorf("unexpected params %+v", a.Params())
	}
	if a.Params().Get("end") != 0.95 {
		t.Error("defaults should stay under the overlay")
	}
	if a.ps == b.ps {
		t.Error("drivers built from the same options must not share particles")
	}
}

func TestOptionsFromConfigBadModeExplores(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = "race"
	d := NewDriver(ramp{}, OptionsFromConfig(cfg)...)
	if d.Params().Mode != dynamo.ModeExplore {
		t.Errorf("mode = %s, want explore", d.Params().Mode)
	}
}

func TestWithParticlesAndBackground(t *testing.T) {
	ps := particles.NewSystem(particles.WithSeed(1))
	d, q, _, buf := mounted(t, ramp{}, WithParticles(ps), WithBackground(gfx.White), WithParticles(nil))
	if d.ps != ps {
		t.Fatal("nil particle option should not replace the system")
	}
	buf.Rec.Reset()
	q.Flush(time.Unix(0, 0))
	if len(buf.Rec.Ops) == 0 || buf.Rec.Ops[0].Kind != gfx.OpClear || buf.Rec.Ops[0].Color != gfx.White {
		t.Errorf("frame should start by clearing to the background")
	}
}
