package draw

import (
	"math"

	"github.com/san-kum/physlab/internal/gfx"
)

// DefaultMinSliver is the fraction of the meter width shown for any
// positive value, so small quantities stay visible.
const DefaultMinSliver = 0.02

type MeterOptions struct {
	Fill       gfx.Color
	Background gfx.Color
	Border     gfx.Color
	Label      string
	FontSize   float64
	// MinSliver overrides DefaultMinSliver when positive.
	MinSliver float64
	Radius    float64
}

// MeterFill returns the filled width of a meter of width w showing value
// out of max. The result lies in [0, w]; it is 0 for non-positive values
// and at least minSliver*w otherwise. A negative max shows only the sliver;
// a zero max has no scale, so any positive value fills the track.
func MeterFill(value, max, w, minSliver float64) float64 {
	if !(w > 0) || math.IsInf(w, 0) {
		return 0
	}
	if !(value > 0) || math.IsNaN(max) {
		return 0
	}
	if !(minSliver > 0) {
		minSliver = DefaultMinSliver
	}

	frac := 1.0
	switch {
	case max < 0:
		frac = 0
	case max > 0 && !math.IsInf(value, 0):
		frac = math.Min(value/max, 1)
	}
	fill := frac * w
	if floor := math.Min(minSliver, 1) * w; fill < floor {
		fill = floor
	}
	return math.Min(fill, w)
}

// Meter draws a horizontal bar gauge with an optional label above it.
func Meter(ctx gfx.Context, x, y, w, h, value, max float64, opts MeterOptions) {
	if !(w > 0) || !(h > 0) {
		return
	}
	if opts.Fill == (gfx.Color{}) {
		opts.Fill = gfx.Hex("#4ade80")
	}
	if opts.Background == (gfx.Color{}) {
		opts.Background = gfx.RGBA(255, 255, 255, 40)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 11
	}

	ctx.Save()
	ctx.SetFillColor(opts.Background)
	ctx.BeginPath()
	ctx.RoundRect(x, y, w, h, opts.Radius)
	ctx.Fill()

	if fill := MeterFill(value, max, w, opts.MinSliver); fill > 0 {
		ctx.SetFillColor(opts.Fill)
		ctx.BeginPath()
		ctx.RoundRect(x, y, fill, h, math.Min(opts.Radius, fill/2))
		ctx.Fill()
	}

	if opts.Border != (gfx.Color{}) {
		ctx.SetStrokeColor(opts.Border)
		ctx.SetLineWidth(1)
		ctx.BeginPath()
		ctx.RoundRect(x, y, w, h, opts.Radius)
		ctx.Stroke()
	}

	if opts.Label != "" {
		ctx.SetFillColor(gfx.White)
		ctx.SetFontSize(opts.FontSize)
		ctx.SetTextAlign(gfx.AlignLeft)
		ctx.FillText(opts.Label, x, y-opts.FontSize*0.8)
	}
	ctx.Restore()
}
