package gfx

import "math"

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Matrix is an affine transform in canvas order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

func Identity() Matrix { return Matrix{A: 1, D: 1} }

func ScaleMatrix(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

func TranslateMatrix(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

// Mul returns m∘n: n is applied first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Matrix) Apply(x, y float64) Point {
	return Point{
		X: m.A*x + m.C*y + m.E,
		Y: m.B*x + m.D*y + m.F,
	}
}

// ScaleFactor is the uniform scale implied by the transform, used to size
// line widths and text.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}
