package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/gfx"
)

func TestCanvasSetAndUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, gfx.White)
	c.Set(3, 3, gfx.White)
	if !c.Lit(0, 0) || !c.Lit(3, 3) {
		t.Fatal("dots not set")
	}
	if got := c.Plain(); got != "⠁⢀\n" {
		t.Errorf("unexpected canvas %q", got)
	}
	c.Unset(0, 0)
	c.Set(-1, 0, gfx.White)
	c.Set(4, 0, gfx.White)
	if c.Lit(0, 0) || strings.ContainsRune(c.Plain(), '⠁') {
		t.Error("unset or out-of-range write failed")
	}
}

func TestCanvasBackingSize(t *testing.T) {
	c := NewCanvas(1, 1)
	c.SetBackingSize(9, 10)
	if c.Width != 5 || c.Height != 3 {
		t.Errorf("expected 5x3 cells, got %dx%d", c.Width, c.Height)
	}
}

func TestCanvasPainter(t *testing.T) {
	c := NewCanvas(10, 5)
	ctx := gfx.NewCanvas2D(c.Painter())

	ctx.SetStrokeColor(gfx.White)
	ctx.BeginPath()
	ctx.MoveTo(0, 2)
	ctx.LineTo(19, 2)
	ctx.Stroke()
	for x := 0; x < 20; x++ {
		if !c.Lit(x, 2) {
			t.Fatalf("line missing dot at x=%d", x)
		}
	}

	ctx.SetFillColor(gfx.Hex("#fbbf24"))
	ctx.FillRect(4, 8, 4, 4)
	if !c.Lit(5, 9) || c.Lit(9, 9) {
		t.Error("rectangle fill misplaced")
	}

	ctx.SetFillColor(gfx.Hex("#0f172a"))
	ctx.FillRect(10, 12, 6, 6)
	if c.Lit(12, 14) {
		t.Error("dark fills should stay background")
	}

	ctx.SetFillColor(gfx.White)
	ctx.FillText("hi", 0, 18)
	if !strings.Contains(c.Plain(), "hi") {
		t.Error("text overlay missing")
	}

	ctx.Clear(gfx.Black)
	if strings.TrimRight(c.Plain(), "⠀\n") != "" {
		t.Error("clear left content behind")
	}
}

func TestLiveRunsDriver(t *testing.T) {
	m, err := NewLive(nil, "projectile", time.Second/60, ThemeCyberpunk, nil)
	if err != nil {
		t.Fatal(err)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Live)
	if m.Canvas().Width != 120-sidebarWidth {
		t.Errorf("canvas width %d", m.Canvas().Width)
	}

	now := time.Now()
	for i := 0; i < 5; i++ {
		now = now.Add(time.Second / 60)
		next, _ = m.Update(TickMsg(now))
		m = next.(Live)
	}
	if m.Driver().Time() <= 0 {
		t.Fatal("ticks should advance the driver")
	}
	if !strings.Contains(m.View(), "RUNNING") {
		t.Error("sidebar missing")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Live)
	paused := m.Driver().Time()
	next, _ = m.Update(TickMsg(now.Add(time.Second)))
	m = next.(Live)
	if m.Driver().Time() != paused {
		t.Error("paused driver advanced")
	}
}

func TestLiveKeys(t *testing.T) {
	m, err := NewLive(nil, "spring", 0, ThemeRetro, nil)
	if err != nil {
		t.Fatal(err)
	}
	press := func(k tea.KeyMsg) {
		next, _ := m.Update(k)
		m = next.(Live)
	}

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.Driver().Params().Mode != dynamo.ModeChallenge {
		t.Error("c should enter challenge mode")
	}

	spec := m.Driver().Simulation().Specs()[0]
	before := m.Driver().Params().Get(spec.Name)
	press(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.Driver().Params().Get(spec.Name); got != spec.Clamp(before+spec.Step) {
		t.Errorf("up should add one step to %s: %f -> %f", spec.Name, before, got)
	}

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if m.Driver().Simulation().Name() == "spring" {
		t.Error("n should switch simulation")
	}
	if m.Driver().Params().Mode != dynamo.ModeChallenge {
		t.Error("mode should survive a simulation switch")
	}

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.theme.Name != ThemeChalkboard.Name {
		t.Errorf("expected chalkboard theme, got %s", m.theme.Name)
	}
}

func TestMenuStartsLive(t *testing.T) {
	m := NewMenu(nil, nil, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != statePresets || m.presets[0] != "defaults" {
		t.Fatalf("expected preset list, state=%d", m.state)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateLive || cmd == nil {
		t.Fatal("enter on a preset should start the live view")
	}
	if got := m.live.Driver().Simulation().Name(); got != m.names[1] {
		t.Errorf("expected %s, got %s", m.names[1], got)
	}
}
