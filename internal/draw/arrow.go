// Package draw holds the vector primitives simulations compose their
// frames from. Every function only issues calls on the context it is
// given; identical inputs produce identical draw sequences.
package draw

import (
	"math"

	"github.com/san-kum/physlab/internal/gfx"
)

// minArrowLength is the length below which an arrow is not drawn at all.
const minArrowLength = 1e-6

type ArrowOptions struct {
	Color     gfx.Color
	Width     float64
	HeadSize  float64
	Label     string
	LabelSize float64
	// LabelGap is the distance between the tip and the label.
	LabelGap float64
}

func (o ArrowOptions) withDefaults() ArrowOptions {
	if o.Color == (gfx.Color{}) {
		o.Color = gfx.White
	}
	if o.Width <= 0 {
		o.Width = 2
	}
	if o.HeadSize <= 0 {
		o.HeadSize = 10
	}
	if o.LabelSize <= 0 {
		o.LabelSize = 12
	}
	if o.LabelGap <= 0 {
		o.LabelGap = 8
	}
	return o
}

// Arrow draws a vector from (x, y) to (x+dx, y+dy): a shaft and a filled
// triangular head, plus an optional label past the tip.
func Arrow(ctx gfx.Context, x, y, dx, dy float64, opts ArrowOptions) {
	length := math.Hypot(dx, dy)
	if !(length >= minArrowLength) || math.IsInf(length, 0) {
		return
	}
	opts = opts.withDefaults()

	ux, uy := dx/length, dy/length
	tipX, tipY := x+dx, y+dy

	// the head never exceeds the arrow itself
	head := math.Min(opts.HeadSize, length)
	baseX, baseY := tipX-ux*head, tipY-uy*head
	px, py := -uy, ux
	half := head * 0.5

	ctx.Save()
	ctx.SetStrokeColor(opts.Color)
	ctx.SetFillColor(opts.Color)
	ctx.SetLineWidth(opts.Width)

	ctx.BeginPath()
	ctx.MoveTo(x, y)
	ctx.LineTo(baseX, baseY)
	ctx.Stroke()

	ctx.BeginPath()
	ctx.MoveTo(tipX, tipY)
	ctx.LineTo(baseX+px*half, baseY+py*half)
	ctx.LineTo(baseX-px*half, baseY-py*half)
	ctx.ClosePath()
	ctx.Fill()

	if opts.Label != "" {
		ctx.SetFontSize(opts.LabelSize)
		ctx.SetTextAlign(gfx.AlignCenter)
		ctx.FillText(opts.Label, tipX+ux*opts.LabelGap, tipY+uy*opts.LabelGap)
	}
	ctx.Restore()
}
