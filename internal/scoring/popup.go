package scoring

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/physlab/internal/gfx"
)

const (
	DefaultPopupLifetime = 1400 * time.Millisecond
	popupRise            = 48.0
	popupFontSize        = 18.0
	popupFPS             = 60
)

// Popup is transient score feedback anchored where the event happened.
type Popup struct {
	Text     string
	Points   int
	X, Y     float64
	Color    gfx.Color
	Start    time.Time
	Lifetime time.Duration
}

// NewPopup builds the popup for result at (x, y). A non-positive lifetime
// uses DefaultPopupLifetime.
func NewPopup(result AccuracyResult, x, y float64, now time.Time, lifetime time.Duration) Popup {
	if lifetime <= 0 {
		lifetime = DefaultPopupLifetime
	}
	return Popup{
		Text:     result.String(),
		Points:   result.Points,
		X:        x,
		Y:        y,
		Color:    LabelColor(result.Label),
		Start:    now,
		Lifetime: lifetime,
	}
}

// LabelColor is the display colour for a band label.
func LabelColor(label string) gfx.Color {
	switch label {
	case "Perfect":
		return gfx.Hex("#facc15")
	case "Great":
		return gfx.Hex("#4ade80")
	case "Good":
		return gfx.Hex("#60a5fa")
	case LabelOff:
		return gfx.Hex("#f87171")
	}
	return gfx.White
}

// popScale is the pop-in scale per frame: an under-damped spring from 0
// to 1 that overshoots before settling.
var popScale = springCurve(popupFPS*2, 7.0, 0.3)

func springCurve(frames int, freq, damping float64) []float64 {
	spring := harmonica.NewSpring(harmonica.FPS(popupFPS), freq, damping)
	curve := make([]float64, frames)
	var pos, vel float64
	for i := range curve {
		curve[i] = pos
		pos, vel = spring.Update(pos, vel, 1)
	}
	return curve
}

func scaleAt(elapsed time.Duration) float64 {
	i := int(elapsed.Seconds() * popupFPS)
	if i >= len(popScale) {
		return 1
	}
	return math.Max(popScale[max(i, 0)], 0)
}

// RenderScorePopup draws p as of now and reports whether it is still
// alive. Expired popups draw nothing; callers drop them when this returns
// false.
func RenderScorePopup(ctx gfx.Context, p Popup, now time.Time) bool {
	lifetime := p.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultPopupLifetime
	}
	elapsed := now.Sub(p.Start)
	if elapsed >= lifetime {
		return false
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if ctx == nil {
		return true
	}

	t := float64(elapsed) / float64(lifetime)
	scale := scaleAt(elapsed)
	if scale <= 0 {
		return true
	}

	ctx.Save()
	ctx.Translate(p.X, p.Y-popupRise*easeOutCubic(t))
	ctx.Scale(scale, scale)
	// hold full opacity for the first half, then fade out
	ctx.SetGlobalAlpha(math.Min(1, 2*(1-t)))
	ctx.SetFontSize(popupFontSize)
	ctx.SetTextAlign(gfx.AlignCenter)
	ctx.SetFillColor(p.Color)
	ctx.FillText(p.Text, 0, 0)
	ctx.Restore()
	return true
}

// FilterPopups renders every popup and compacts the slice in place,
// keeping only those still alive.
func FilterPopups(ctx gfx.Context, popups []Popup, now time.Time) []Popup {
	alive := popups[:0]
	for _, p := range popups {
		if RenderScorePopup(ctx, p, now) {
			alive = append(alive, p)
		}
	}
	clear(popups[len(alive):])
	return alive
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
