package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/physlab/internal/gfx"
)

// Target is the render texture simulations draw into. It is a
// surface.Element whose backing store is reallocated on resize, and its
// own gfx.Painter. Painting is only valid between Begin and End.
type Target struct {
	tex     rl.RenderTexture2D
	font    rl.Font
	w, h    int32
	loaded  bool
	mounted bool
}

func NewTarget(font rl.Font) *Target {
	return &Target{font: font, mounted: true}
}

func (t *Target) Mounted() bool { return t.mounted }

func (t *Target) SetBackingSize(w, h int) {
	if t.loaded {
		rl.UnloadRenderTexture(t.tex)
	}
	t.tex = rl.LoadRenderTexture(int32(w), int32(h))
	rl.SetTextureFilter(t.tex.Texture, rl.FilterBilinear)
	t.w, t.h = int32(w), int32(h)
	t.loaded = true
}

func (t *Target) Painter() gfx.Painter { return t }

func (t *Target) Begin() bool {
	if !t.loaded {
		return false
	}
	rl.BeginTextureMode(t.tex)
	return true
}

func (t *Target) End() { rl.EndTextureMode() }

// Present draws the texture over the window. Render textures are stored
// upside down, hence the negative source height.
func (t *Target) Present(w, h float32) {
	if !t.loaded {
		return
	}
	src := rl.NewRectangle(0, 0, float32(t.w), -float32(t.h))
	dst := rl.NewRectangle(0, 0, w, h)
	rl.DrawTexturePro(t.tex.Texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func (t *Target) Unload() {
	t.mounted = false
	if t.loaded {
		rl.UnloadRenderTexture(t.tex)
		t.loaded = false
	}
}

func (t *Target) StrokePolyline(pts []gfx.Point, closed bool, width float64, c gfx.Color) {
	col := toColor(c)
	thick := float32(max(width, 1))
	for i := 1; i < len(pts); i++ {
		rl.DrawLineEx(vec(pts[i-1]), vec(pts[i]), thick, col)
	}
	if closed && len(pts) > 2 {
		rl.DrawLineEx(vec(pts[len(pts)-1]), vec(pts[0]), thick, col)
	}
}

// FillPolygon fans triangles out from the first vertex. Every shape the
// simulations fill is convex.
func (t *Target) FillPolygon(pts []gfx.Point, c gfx.Color) {
	col := toColor(c)
	for i := 2; i < len(pts); i++ {
		rl.DrawTriangle(vec(pts[0]), vec(pts[i-1]), vec(pts[i]), col)
	}
}

func (t *Target) Text(s string, x, y, size float64, c gfx.Color) {
	pos := rl.NewVector2(float32(x), float32(y-size/2))
	rl.DrawTextEx(t.font, s, pos, float32(size), 1, toColor(c))
}

func (t *Target) Clear(c gfx.Color) { rl.ClearBackground(toColor(c)) }

func vec(p gfx.Point) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func toColor(c gfx.Color) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }
