package export

import (
	"strings"
	"testing"
	"time"

	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/sim"
	"github.com/san-kum/physlab/internal/surface"
	"github.com/san-kum/physlab/internal/viz"
)

func TestSVGPainter(t *testing.T) {
	s := NewSVG()
	s.SetBackingSize(200, 100)
	ctx := gfx.NewCanvas2D(s)
	ctx.Clear(gfx.Hex("#0f172a"))
	ctx.SetFillColor(gfx.White)
	ctx.FillRect(10, 10, 20, 20)
	ctx.FillText("a<b", 5, 5)

	out := s.String()
	if s.Len() != 2 {
		t.Errorf("expected 2 elements, got %d", s.Len())
	}
	for _, want := range []string{`width="200"`, `fill="#0f172a"`, "<polygon", "a&lt;b"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestSVGSnapshotOfDriver(t *testing.T) {
	s, err := experiment.NewRegistry().Get("work-energy")
	if err != nil {
		t.Fatal(err)
	}
	svg := NewSVG()
	var _ surface.Element = svg
	q := sim.NewFrameQueue()
	d := sim.NewDriver(s)
	d.Mount(svg, nil, q)
	if !d.Resize(640, 400, 1) {
		t.Fatal("resize failed")
	}
	q.Flush(time.Now())
	if svg.W != 640 || svg.Len() == 0 || !strings.Contains(svg.String(), "Work-Energy") {
		t.Error("driver frame should render into the SVG")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0, gfx.White)
	c.Set(3, 3, gfx.White)
	if n := strings.Count(CanvasToSVG(c, 4), "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]gfx.Point{{X: 1, Y: 1}}, 10, 10, "#fff") != "" {
		t.Error("single point should give empty output")
	}
	out := TrajectoryToSVG([]gfx.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, 100, 50, "#60a5fa")
	if strings.Count(out, " L") != 2 || !strings.Contains(out, `stroke="#60a5fa"`) {
		t.Errorf("unexpected path %s", out)
	}
}
