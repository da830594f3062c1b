package viz

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physlab/internal/gfx"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	blank = rune(0x2800)
	// fills darker than this are treated as background on a terminal
	darkFill = 0.22
	// paint with less alpha than this is dropped
	minAlpha = 0.15
)

type cell struct {
	dots  rune
	color gfx.Color
	text  rune
	tcol  gfx.Color
}

// Canvas is a braille dot grid with a text overlay. Its device pixels are
// braille dots, so a canvas of Width x Height cells is 2*Width x 4*Height
// pixels. It implements gfx.Painter and surface.Element.
type Canvas struct {
	Width, Height int
	Grid          [][]cell
	mounted       bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{mounted: true}
	c.allocate(w, h)
	return c
}

func (c *Canvas) allocate(w, h int) {
	c.Width, c.Height = max(w, 0), max(h, 0)
	c.Grid = make([][]cell, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]cell, c.Width)
	}
	c.Clear(gfx.Transparent)
}

func (c *Canvas) Mounted() bool { return c.mounted }

// SetBackingSize resizes to hold w x h dots, rounding up to whole cells.
func (c *Canvas) SetBackingSize(w, h int) {
	c.allocate((w+1)/2, (h+3)/4)
}

func (c *Canvas) Painter() gfx.Painter { return c }

// Unmount detaches the canvas; drivers stop drawing into it.
func (c *Canvas) Unmount() { c.mounted = false }

// Set turns on the dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int, col gfx.Color) {
	if x < 0 || y < 0 {
		return
	}
	row, column := y/4, x/2
	if column >= c.Width || row >= c.Height {
		return
	}
	cl := &c.Grid[row][column]
	cl.dots |= rune(pixelMap[y%4][x%2])
	cl.color = col
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	row, column := y/4, x/2
	if column >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][column].dots &^= rune(pixelMap[y%4][x%2])
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2].dots&rune(pixelMap[y%4][x%2]) != 0
}

// Clear blanks every cell. The color is ignored: the terminal background
// shows through.
func (c *Canvas) Clear(gfx.Color) {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = cell{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col gfx.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) StrokePolyline(pts []gfx.Point, closed bool, width float64, col gfx.Color) {
	if col.Opacity() < minAlpha || len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		c.segment(pts[i-1], pts[i], col)
	}
	if closed {
		c.segment(pts[len(pts)-1], pts[0], col)
	}
}

func (c *Canvas) segment(a, b gfx.Point, col gfx.Color) {
	if tooFar(a) || tooFar(b) {
		return
	}
	if !c.onScreen(a) && !c.onScreen(b) && !c.crosses(a, b) {
		return
	}
	c.DrawLine(int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)), col)
}

// FillPolygon scan-converts pts with the even-odd rule.
func (c *Canvas) FillPolygon(pts []gfx.Point, col gfx.Color) {
	if col.Opacity() < minAlpha || luminance(col) < darkFill || len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	y0 := max(int(math.Floor(minY)), 0)
	y1 := min(int(math.Ceil(maxY)), c.Height*4-1)

	var xs []float64
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if (a.Y <= sy) == (b.Y <= sy) {
				continue
			}
			xs = append(xs, a.X+(sy-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i] - 0.5)); float64(x)+0.5 <= xs[i+1]; x++ {
				c.Set(x, y, col)
			}
		}
	}
	// thin shapes still leave a mark
	if len(xs) == 0 && y0 == y1 {
		c.Set(int(math.Round(pts[0].X)), y0, col)
	}
}

// Text writes s into the overlay starting at the cell containing (x, y).
func (c *Canvas) Text(s string, x, y, size float64, col gfx.Color) {
	if col.Opacity() < minAlpha {
		return
	}
	row, column := int(math.Floor(y/4)), int(math.Floor(x/2))
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if column >= c.Width {
			return
		}
		if column >= 0 {
			c.Grid[row][column].text = r
			c.Grid[row][column].tcol = col
		}
		column++
	}
}

// Plain returns the canvas without color, text taking precedence over dots.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for _, row := range c.Grid {
		for _, cl := range row {
			b.WriteRune(cl.glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the canvas with per-cell foreground colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		var run strings.Builder
		var runCol gfx.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runCol == gfx.Transparent {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runCol.Hex())).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			col := cl.foreground()
			if col != runCol {
				flush()
				runCol = col
			}
			run.WriteRune(cl.glyph())
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func (cl cell) glyph() rune {
	if cl.text != 0 {
		return cl.text
	}
	return blank | cl.dots
}

func (cl cell) foreground() gfx.Color {
	switch {
	case cl.text != 0:
		return opaque(cl.tcol)
	case cl.dots != 0:
		return opaque(cl.color)
	}
	return gfx.Transparent
}

func opaque(c gfx.Color) gfx.Color {
	c.A = 255
	return c
}

func (c *Canvas) onScreen(p gfx.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(c.Width*2) && p.Y < float64(c.Height*4)
}

func (c *Canvas) crosses(a, b gfx.Point) bool {
	w, h := float64(c.Width*2), float64(c.Height*4)
	return !(a.X < 0 && b.X < 0) && !(a.Y < 0 && b.Y < 0) && !(a.X >= w && b.X >= w) && !(a.Y >= h && b.Y >= h)
}

func tooFar(p gfx.Point) bool {
	const limit = 1 << 16
	return math.Abs(p.X) > limit || math.Abs(p.Y) > limit
}

func luminance(c gfx.Color) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
