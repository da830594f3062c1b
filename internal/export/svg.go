package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/viz"
)

// SVG records painter calls as SVG elements. It is also a surface element,
// so a driver can draw a frame straight into it.
type SVG struct {
	W, H  int
	body  strings.Builder
	bg    gfx.Color
	items int
}

func NewSVG() *SVG { return &SVG{} }

func (s *SVG) Mounted() bool { return true }

func (s *SVG) SetBackingSize(w, h int) {
	s.W, s.H = w, h
	s.Reset()
}

func (s *SVG) Painter() gfx.Painter { return s }

func (s *SVG) Reset() {
	s.body.Reset()
	s.items = 0
	s.bg = gfx.Transparent
}

// Len is the number of drawn elements, not counting the background.
func (s *SVG) Len() int { return s.items }

func (s *SVG) StrokePolyline(pts []gfx.Point, closed bool, width float64, c gfx.Color) {
	tag := "polyline"
	if closed {
		tag = "polygon"
	}
	fmt.Fprintf(&s.body, `<%s points="%s" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f" stroke-linejoin="round"/>`+"\n",
		tag, points(pts), c.Hex(), c.Opacity(), width)
	s.items++
}

func (s *SVG) FillPolygon(pts []gfx.Point, c gfx.Color) {
	fmt.Fprintf(&s.body, `<polygon points="%s" fill="%s" fill-opacity="%.2f"/>`+"\n", points(pts), c.Hex(), c.Opacity())
	s.items++
}

func (s *SVG) Text(str string, x, y, size float64, c gfx.Color) {
	fmt.Fprintf(&s.body, `<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.1f" dominant-baseline="middle" fill="%s" fill-opacity="%.2f">%s</text>`+"\n",
		x, y, size, c.Hex(), c.Opacity(), html.EscapeString(str))
	s.items++
}

// Clear drops everything drawn so far and sets the background.
func (s *SVG) Clear(c gfx.Color) {
	s.Reset()
	s.bg = c
}

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.W, s.H, s.W, s.H)
	if s.bg.A > 0 {
		fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.bg.Hex())
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>")
	return sb.String()
}

func points(pts []gfx.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	r := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if canvas.Lit(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG plots points (y up) fitted into a width x height image.
func TrajectoryToSVG(pts []gfx.Point, width, height int, strokeColor string) string {
	if len(pts) < 2 {
		return ""
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range pts {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
