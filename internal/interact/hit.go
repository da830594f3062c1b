package interact

// Shape is a hit area in logical canvas coordinates.
type Shape interface {
	Contains(x, y float64) bool
}

// Circle is a circular hit area, boundary inclusive.
type Circle struct {
	X, Y, R float64
}

func (c Circle) Contains(x, y float64) bool {
	dx := x - c.X
	dy := y - c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

// Rect is an axis-aligned hit area, boundary inclusive.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

type namedShape struct {
	name  string
	shape Shape
}

// Handles is an ordered set of named hit areas. Later entries sit on top.
type Handles struct {
	items []namedShape
}

// Set adds name, or replaces its shape in place if already present.
func (h *Handles) Set(name string, s Shape) {
	for i := range h.items {
		if h.items[i].name == name {
			h.items[i].shape = s
			return
		}
	}
	h.items = append(h.items, namedShape{name: name, shape: s})
}

func (h *Handles) Remove(name string) {
	for i := range h.items {
		if h.items[i].name == name {
			copy(h.items[i:], h.items[i+1:])
			h.items[len(h.items)-1] = namedShape{}
			h.items = h.items[:len(h.items)-1]
			return
		}
	}
}

// Hit returns the topmost handle containing (x, y).
func (h *Handles) Hit(x, y float64) (string, bool) {
	for i := len(h.items) - 1; i >= 0; i-- {
		if h.items[i].shape != nil && h.items[i].shape.Contains(x, y) {
			return h.items[i].name, true
		}
	}
	return "", false
}

func (h *Handles) Len() int { return len(h.items) }
