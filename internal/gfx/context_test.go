package gfx

import (
	"math"
	"testing"
)

func TestSetTransformIsIdempotent(t *testing.T) {
	rec := NewRecorder()
	c := NewCanvas2D(rec)

	for i := 0; i < 3; i++ {
		c.SetTransform(ScaleMatrix(2, 2))
	}
	c.BeginPath()
	c.MoveTo(10, 10)
	c.LineTo(20, 10)
	c.Stroke()

	if len(rec.Ops) != 1 {
		t.Fatalf("expected 1 op, got %d", len(rec.Ops))
	}
	got := rec.Ops[0].Points
	if got[0] != (Point{20, 20}) || got[1] != (Point{40, 20}) {
		t.Errorf("unexpected device points %v", got)
	}
	if rec.Ops[0].Width != 2 {
		t.Errorf("expected line width scaled to 2, got %f", rec.Ops[0].Width)
	}
}

func TestSaveRestore(t *testing.T) {
	c := NewCanvas2D(NewRecorder())
	c.Save()
	c.Translate(5, 5)
	c.SetGlobalAlpha(0.5)
	c.Restore()

	if c.Transform() != Identity() {
		t.Errorf("expected identity after restore, got %+v", c.Transform())
	}

	// unbalanced restore is ignored
	c.Restore()
}

func TestNonFinitePathIsSkipped(t *testing.T) {
	rec := NewRecorder()
	c := NewCanvas2D(rec)

	c.BeginPath()
	c.MoveTo(0, 0)
	c.LineTo(math.NaN(), 3)
	c.LineTo(4, 4)
	c.Stroke()
	c.Fill()
	c.FillRect(math.Inf(1), 0, 1, 1)
	c.FillText("nan", math.NaN(), 0)

	if len(rec.Ops) != 0 {
		t.Errorf("expected no ops for non-finite input, got %d", len(rec.Ops))
	}
}

func TestGlobalAlphaFadesColors(t *testing.T) {
	rec := NewRecorder()
	c := NewCanvas2D(rec)
	c.SetFillColor(RGB(255, 0, 0))
	c.SetGlobalAlpha(0.5)
	c.FillRect(0, 0, 1, 1)

	if a := rec.Ops[0].Color.A; a != 128 {
		t.Errorf("expected alpha 128, got %d", a)
	}
}

func TestTextAlignment(t *testing.T) {
	rec := NewRecorder()
	c := NewCanvas2D(rec)
	c.SetFontSize(10)
	c.SetTextAlign(AlignCenter)
	c.FillText("abcd", 100, 50)

	x := rec.Ops[0].Points[0].X
	want := 100 - c.MeasureText("abcd")/2
	if math.Abs(x-want) > 1e-9 {
		t.Errorf("expected centred text at %f, got %f", want, x)
	}
}

func TestRoundRectIsClosed(t *testing.T) {
	rec := NewRecorder()
	c := NewCanvas2D(rec)
	c.BeginPath()
	c.RoundRect(0, 0, 40, 20, 4)
	c.Fill()

	if rec.Count(OpFill) != 1 {
		t.Fatalf("expected one fill, got %d", rec.Count(OpFill))
	}
	for _, p := range rec.Ops[0].Points {
		if p.X < -1e-9 || p.X > 40+1e-9 || p.Y < -1e-9 || p.Y > 20+1e-9 {
			t.Errorf("point %v outside rect", p)
		}
	}
}

func TestHex(t *testing.T) {
	c := Hex("#00ccff")
	if c != RGB(0, 0xcc, 0xff) {
		t.Errorf("unexpected color %+v", c)
	}
	if c.Hex() != "#00ccff" {
		t.Errorf("round trip failed: %s", c.Hex())
	}
	if Hex("bad") != White {
		t.Error("malformed hex should fall back to white")
	}
}
