package draw

import "github.com/san-kum/physlab/internal/gfx"

// Row is one label/value line in an info panel. A zero Color uses the
// panel's value colour.
type Row struct {
	Label string
	Value string
	Color gfx.Color
}

type PanelOptions struct {
	Title      string
	Background gfx.Color
	Border     gfx.Color
	LabelColor gfx.Color
	ValueColor gfx.Color
	FontSize   float64
	Padding    float64
	Radius     float64
}

func (o PanelOptions) withDefaults() PanelOptions {
	if o.Background == (gfx.Color{}) {
		o.Background = gfx.RGBA(15, 23, 42, 220)
	}
	if o.LabelColor == (gfx.Color{}) {
		o.LabelColor = gfx.Hex("#94a3b8")
	}
	if o.ValueColor == (gfx.Color{}) {
		o.ValueColor = gfx.White
	}
	if o.FontSize <= 0 {
		o.FontSize = 12
	}
	if o.Padding <= 0 {
		o.Padding = 8
	}
	if o.Radius <= 0 {
		o.Radius = 6
	}
	return o
}

// PanelHeight is the height InfoPanel uses for n rows.
func PanelHeight(n int, opts PanelOptions) float64 {
	if n <= 0 {
		return 0
	}
	opts = opts.withDefaults()
	lines := n
	if opts.Title != "" {
		lines++
	}
	return float64(lines)*opts.FontSize*1.5 + 2*opts.Padding
}

// InfoPanel draws a rounded panel at (x, y) listing rows top to bottom,
// labels left-aligned and values right-aligned. Nothing is drawn when rows
// is empty.
func InfoPanel(ctx gfx.Context, x, y, w float64, rows []Row, opts PanelOptions) {
	if len(rows) == 0 || !(w > 0) {
		return
	}
	opts = opts.withDefaults()
	lineH := opts.FontSize * 1.5
	h := PanelHeight(len(rows), opts)

	ctx.Save()
	ctx.SetFillColor(opts.Background)
	ctx.BeginPath()
	ctx.RoundRect(x, y, w, h, opts.Radius)
	ctx.Fill()
	if opts.Border != (gfx.Color{}) {
		ctx.SetStrokeColor(opts.Border)
		ctx.SetLineWidth(1)
		ctx.Stroke()
	}

	ctx.SetFontSize(opts.FontSize)
	cy := y + opts.Padding + lineH/2
	if opts.Title != "" {
		ctx.SetFillColor(opts.ValueColor)
		ctx.SetTextAlign(gfx.AlignLeft)
		ctx.FillText(opts.Title, x+opts.Padding, cy)
		cy += lineH
	}

	for _, r := range rows {
		ctx.SetTextAlign(gfx.AlignLeft)
		ctx.SetFillColor(opts.LabelColor)
		ctx.FillText(r.Label, x+opts.Padding, cy)

		vc := r.Color
		if vc == (gfx.Color{}) {
			vc = opts.ValueColor
		}
		ctx.SetTextAlign(gfx.AlignRight)
		ctx.SetFillColor(vc)
		ctx.FillText(r.Value, x+w-opts.Padding, cy)
		cy += lineH
	}
	ctx.Restore()
}
