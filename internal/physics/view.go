package physics

import (
	"math"

	"github.com/san-kum/physlab/internal/gfx"
)

const (
	gravity = 9.81
	margin  = 40.0
)

var (
	colTrack  = gfx.Hex("#64748b")
	colBlock  = gfx.Hex("#38bdf8")
	colForce  = gfx.Hex("#f59e0b")
	colVel    = gfx.Hex("#4ade80")
	colHeat   = gfx.Hex("#f87171")
	colEnergy = gfx.Hex("#a78bfa")
	colTarget = gfx.Hex("#facc15")
	colHandle = gfx.RGBA(255, 255, 255, 160)
	colMuted  = gfx.Hex("#94a3b8")
)

// view maps world metres (y up) to logical pixels (y down).
type view struct {
	ox, oy float64
	scale  float64
}

func (v view) toScreen(x, y float64) (float64, float64) {
	return v.ox + x*v.scale, v.oy - y*v.scale
}

func (v view) toWorld(sx, sy float64) (float64, float64) {
	if v.scale == 0 {
		return 0, 0
	}
	return (sx - v.ox) / v.scale, (v.oy - sy) / v.scale
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// crossed reports whether a step from t-dt to t passed a multiple of period.
func crossed(t, dt, period float64) bool {
	return math.Floor(t/period) != math.Floor((t-dt)/period)
}
