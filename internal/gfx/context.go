package gfx

import (
	"math"
	"unicode/utf8"
)

// Align controls horizontal text placement relative to the x coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Painter is the device-space backend behind a Canvas2D.
// Implementations must not retain pts after returning.
type Painter interface {
	StrokePolyline(pts []Point, closed bool, width float64, c Color)
	FillPolygon(pts []Point, c Color)
	// Text draws s with its left edge at x and its vertical centre at y.
	Text(s string, x, y, size float64, c Color)
	Clear(c Color)
}

// Context is the drawing surface handed to simulations and primitives.
type Context interface {
	Save()
	Restore()
	SetTransform(m Matrix)
	Transform() Matrix
	Translate(dx, dy float64)
	Scale(sx, sy float64)

	SetFillColor(c Color)
	SetStrokeColor(c Color)
	SetLineWidth(w float64)
	SetGlobalAlpha(a float64)
	SetFontSize(size float64)
	SetTextAlign(a Align)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, r, start, end float64)
	RoundRect(x, y, w, h, r float64)
	ClosePath()
	Stroke()
	Fill()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillText(s string, x, y float64)
	MeasureText(s string) float64

	Clear(c Color)
}

// glyphAspect approximates monospace advance width relative to font size.
const glyphAspect = 0.6

type drawState struct {
	m         Matrix
	fill      Color
	stroke    Color
	lineWidth float64
	alpha     float64
	fontSize  float64
	align     Align
}

type subpath struct {
	pts    []Point
	closed bool
}

// Canvas2D implements Context on top of a Painter.
type Canvas2D struct {
	p     Painter
	st    drawState
	stack []drawState
	path  []subpath
}

func NewCanvas2D(p Painter) *Canvas2D {
	return &Canvas2D{
		p: p,
		st: drawState{
			m:         Identity(),
			fill:      Black,
			stroke:    Black,
			lineWidth: 1,
			alpha:     1,
			fontSize:  12,
		},
	}
}

func (c *Canvas2D) Painter() Painter { return c.p }

func (c *Canvas2D) Save() { c.stack = append(c.stack, c.st) }

func (c *Canvas2D) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// SetTransform replaces the current transform. Unlike Scale it does not
// compose, so calling it repeatedly with the same matrix is idempotent.
func (c *Canvas2D) SetTransform(m Matrix) { c.st.m = m }

func (c *Canvas2D) Transform() Matrix { return c.st.m }

func (c *Canvas2D) Translate(dx, dy float64) { c.st.m = c.st.m.Mul(TranslateMatrix(dx, dy)) }

func (c *Canvas2D) Scale(sx, sy float64) { c.st.m = c.st.m.Mul(ScaleMatrix(sx, sy)) }

func (c *Canvas2D) SetFillColor(col Color)   { c.st.fill = col }
func (c *Canvas2D) SetStrokeColor(col Color) { c.st.stroke = col }
func (c *Canvas2D) SetTextAlign(a Align)     { c.st.align = a }

func (c *Canvas2D) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		c.st.lineWidth = w
	}
}

func (c *Canvas2D) SetGlobalAlpha(a float64) {
	if math.IsNaN(a) {
		return
	}
	c.st.alpha = math.Max(0, math.Min(1, a))
}

func (c *Canvas2D) SetFontSize(size float64) {
	if size > 0 && !math.IsInf(size, 0) {
		c.st.fontSize = size
	}
}

func (c *Canvas2D) BeginPath() { c.path = c.path[:0] }

func (c *Canvas2D) MoveTo(x, y float64) {
	c.path = append(c.path, subpath{pts: []Point{c.st.m.Apply(x, y)}})
}

func (c *Canvas2D) LineTo(x, y float64) {
	if len(c.path) == 0 || c.path[len(c.path)-1].closed {
		c.MoveTo(x, y)
		return
	}
	sp := &c.path[len(c.path)-1]
	sp.pts = append(sp.pts, c.st.m.Apply(x, y))
}

// Arc appends a clockwise (in screen space) arc from start to end radians.
func (c *Canvas2D) Arc(cx, cy, r, start, end float64) {
	sweep := end - start
	n := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi) * 32))
	if n < 8 {
		n = 8
	}
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		c.LineTo(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
}

// RoundRect adds a closed rounded rectangle subpath.
func (c *Canvas2D) RoundRect(x, y, w, h, r float64) {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	c.MoveTo(x+r, y)
	if r == 0 {
		c.LineTo(x+w, y)
		c.LineTo(x+w, y+h)
		c.LineTo(x, y+h)
		c.ClosePath()
		return
	}
	c.Arc(x+w-r, y+r, r, -math.Pi/2, 0)
	c.Arc(x+w-r, y+h-r, r, 0, math.Pi/2)
	c.Arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	c.Arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	c.ClosePath()
}

func (c *Canvas2D) ClosePath() {
	if len(c.path) == 0 {
		return
	}
	c.path[len(c.path)-1].closed = true
}

func (c *Canvas2D) Stroke() {
	if !c.pathFinite() {
		return
	}
	col := c.st.stroke.Fade(c.st.alpha)
	w := c.st.lineWidth * c.st.m.ScaleFactor()
	for _, sp := range c.path {
		if len(sp.pts) < 2 {
			continue
		}
		c.p.StrokePolyline(sp.pts, sp.closed, w, col)
	}
}

func (c *Canvas2D) Fill() {
	if !c.pathFinite() {
		return
	}
	col := c.st.fill.Fade(c.st.alpha)
	for _, sp := range c.path {
		if len(sp.pts) < 3 {
			continue
		}
		c.p.FillPolygon(sp.pts, col)
	}
}

func (c *Canvas2D) FillRect(x, y, w, h float64) {
	pts := c.rect(x, y, w, h)
	if pts == nil {
		return
	}
	c.p.FillPolygon(pts, c.st.fill.Fade(c.st.alpha))
}

func (c *Canvas2D) StrokeRect(x, y, w, h float64) {
	pts := c.rect(x, y, w, h)
	if pts == nil {
		return
	}
	c.p.StrokePolyline(pts, true, c.st.lineWidth*c.st.m.ScaleFactor(), c.st.stroke.Fade(c.st.alpha))
}

// FillText draws s with its vertical centre at y. Horizontal placement
// follows the current text alignment.
func (c *Canvas2D) FillText(s string, x, y float64) {
	if s == "" {
		return
	}
	switch c.st.align {
	case AlignCenter:
		x -= c.MeasureText(s) / 2
	case AlignRight:
		x -= c.MeasureText(s)
	}
	p := c.st.m.Apply(x, y)
	if !p.Finite() {
		return
	}
	c.p.Text(s, p.X, p.Y, c.st.fontSize*c.st.m.ScaleFactor(), c.st.fill.Fade(c.st.alpha))
}

// MeasureText returns the advance width of s in logical units.
func (c *Canvas2D) MeasureText(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * c.st.fontSize * glyphAspect
}

func (c *Canvas2D) Clear(col Color) { c.p.Clear(col) }

func (c *Canvas2D) rect(x, y, w, h float64) []Point {
	pts := []Point{
		c.st.m.Apply(x, y),
		c.st.m.Apply(x+w, y),
		c.st.m.Apply(x+w, y+h),
		c.st.m.Apply(x, y+h),
	}
	for _, p := range pts {
		if !p.Finite() {
			return nil
		}
	}
	return pts
}

func (c *Canvas2D) pathFinite() bool {
	for _, sp := range c.path {
		for _, p := range sp.pts {
			if !p.Finite() {
				return false
			}
		}
	}
	return true
}
