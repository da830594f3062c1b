// Package surface manages the backing buffer a simulation draws into,
// matching it to the device pixel ratio so drawing code works in logical
// units.
package surface

import (
	"math"

	"github.com/san-kum/physlab/internal/gfx"
)

// Element is the host's drawable: a terminal canvas, a window render
// texture, an SVG document.
type Element interface {
	Mounted() bool
	// SetBackingSize allocates the device-pixel buffer.
	SetBackingSize(w, h int)
	Painter() gfx.Painter
}

// Clamp adjusts a requested logical size, e.g. to cap the aspect ratio.
type Clamp func(w, h float64) (float64, float64)

// MaxAspect caps height at k*width.
func MaxAspect(k float64) Clamp {
	return func(w, h float64) (float64, float64) {
		if k > 0 && h > w*k {
			h = w * k
		}
		return w, h
	}
}

// Manager owns the element and the context drawing into it.
type Manager struct {
	el    Element
	clamp Clamp
	ctx   *gfx.Canvas2D

	width, height float64
	ratio         float64
	backW, backH  int
	ready         bool
}

func New(el Element, clamp Clamp) *Manager {
	m := &Manager{el: el, clamp: clamp, ratio: 1}
	if el != nil {
		m.ctx = gfx.NewCanvas2D(el.Painter())
	}
	return m
}

// Resize sizes the backing buffer to ratio*logical and resets the context
// transform to scale(ratio). It reports false, changing nothing, when the
// element is missing, unmounted, or the size is degenerate.
func (m *Manager) Resize(w, h, ratio float64) bool {
	if m.el == nil || !m.el.Mounted() {
		return false
	}
	if !positive(w) || !positive(h) {
		return false
	}
	if !positive(ratio) {
		ratio = 1
	}
	if m.clamp != nil {
		w, h = m.clamp(w, h)
		if !positive(w) || !positive(h) {
			return false
		}
	}

	backW := int(math.Round(w * ratio))
	backH := int(math.Round(h * ratio))
	if backW < 1 || backH < 1 {
		return false
	}
	if backW != m.backW || backH != m.backH {
		m.el.SetBackingSize(backW, backH)
	}

	m.width, m.height, m.ratio = w, h, ratio
	m.backW, m.backH = backW, backH
	m.ctx.SetTransform(gfx.ScaleMatrix(ratio, ratio))
	m.ready = true
	return true
}

// Ready reports whether the surface has been sized and its element is
// still mounted.
func (m *Manager) Ready() bool {
	return m.ready && m.el != nil && m.el.Mounted()
}

// Context returns the drawing context, or nil if the surface is not ready.
func (m *Manager) Context() gfx.Context {
	if !m.Ready() {
		return nil
	}
	return m.ctx
}

// Size returns the logical size after clamping.
func (m *Manager) Size() (float64, float64) { return m.width, m.height }

func (m *Manager) Ratio() float64 { return m.ratio }

func (m *Manager) BackingSize() (int, int) { return m.backW, m.backH }

// ToLogical converts a device-pixel position (e.g. a pointer event) into
// logical units.
func (m *Manager) ToLogical(px, py float64) (float64, float64) {
	return px / m.ratio, py / m.ratio
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
