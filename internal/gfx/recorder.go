package gfx

// OpKind identifies a recorded painter call.
type OpKind int

const (
	OpStroke OpKind = iota
	OpFill
	OpText
	OpClear
)

func (k OpKind) String() string {
	switch k {
	case OpStroke:
		return "stroke"
	case OpFill:
		return "fill"
	case OpText:
		return "text"
	case OpClear:
		return "clear"
	}
	return "unknown"
}

// Op is one recorded painter call in device coordinates.
type Op struct {
	Kind   OpKind
	Points []Point
	Closed bool
	Width  float64
	Size   float64
	Color  Color
	Text   string
}

// Recorder is a Painter that keeps every call in order. It backs headless
// runs and lets tests compare draw sequences.
type Recorder struct {
	Ops []Op
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) StrokePolyline(pts []Point, closed bool, width float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStroke, Points: clonePoints(pts), Closed: closed, Width: width, Color: c})
}

func (r *Recorder) FillPolygon(pts []Point, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Points: clonePoints(pts), Color: c})
}

func (r *Recorder) Text(s string, x, y, size float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Points: []Point{{X: x, Y: y}}, Size: size, Color: c, Text: s})
}

func (r *Recorder) Clear(c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Color: c})
}

func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the strings drawn, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

func clonePoints(pts []Point) []Point {
	c := make([]Point, len(pts))
	copy(c, pts)
	return c
}
