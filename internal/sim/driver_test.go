package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/interact"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/surface"
)

// ramp grows its single state slot at a constant rate until it reaches end.
type ramp struct{}

func (ramp) Name() string { return "ramp" }

func (ramp) Defaults() dynamo.Params {
	return dynamo.NewParams(map[string]float64{"rate": 1, "end": 0.95, "target": 0.5})
}

func (ramp) Specs() []dynamo.ParamSpec {
	return []dynamo.ParamSpec{
		{Name: "rate", Min: 0, Max: 10},
		{Name: "end", Min: 0.1, Max: 100},
		{Name: "target", Min: 0, Max: 100},
	}
}

func (ramp) Init(p dynamo.Params) dynamo.State { return dynamo.State{0} }

func (ramp) Update(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	return dynamo.State{x[0] + p.Get("rate")*dt}
}

func (ramp) Draw(ctx gfx.Context, f dynamo.Frame) {
	ctx.SetFillColor(gfx.White)
	ctx.FillRect(0, 0, f.State[0]*10, 4)
}

func (ramp) Terminal(x dynamo.State, p dynamo.Params) bool { return x[0] >= p.Get("end") }

func (ramp) Measure(x dynamo.State, p dynamo.Params) float64 { return x[0] }

func (ramp) Target(x dynamo.State, p dynamo.Params) float64 { return p.Get("target") }

func (ramp) ScoreAnchor(f dynamo.Frame) gfx.Point { return gfx.Pt(f.Width/2, 20) }

// The knob lives left of x=50. Dragging below y=100 restarts the run.
func (ramp) Grab(f dynamo.Frame, x, y float64) (string, bool) { return "knob", x < 50 }

func (ramp) Drag(f dynamo.Frame, handle string, x, y float64) (dynamo.Params, bool) {
	return f.Params.With("rate", x/10), y > 100
}

func mounted(t *testing.T, s dynamo.Simulation, opts ...Option) (*Driver, *FrameQueue, *interact.Bus, *surface.Buffer) {
	t.Helper()
	d := NewDriver(s, append([]Option{WithDt(0.1)}, opts...)...)
	q := NewFrameQueue()
	bus := interact.NewBus()
	buf := surface.NewBuffer()
	d.Mount(buf, bus, q)
	if !d.Resize(400, 300, 2) {
		t.Fatal("resize failed")
	}
	return d, q, bus, buf
}

func run(q *FrameQueue, frames int, start time.Time) time.Time {
	now := start
	for i := 0; i < frames; i++ {
		now = now.Add(16 * time.Millisecond)
		q.Flush(now)
	}
	return now
}

func TestDriverMountStartsLoop(t *testing.T) {
	d, q, bus, buf := mounted(t, ramp{})
	if !d.Running() || q.Pending() != 1 {
		t.Fatalf("expected a running loop with one pending frame")
	}
	if bus.Len() != 1 {
		t.Errorf("expected one pointer listener, got %d", bus.Len())
	}
	if buf.W != 800 || buf.H != 600 {
		t.Errorf("backing size %dx%d, want 800x600", buf.W, buf.H)
	}
}

func TestDriverStopsAtTerminal(t *testing.T) {
	d, q, _, buf := mounted(t, ramp{})
	run(q, 50, time.Now())

	if !d.Terminal() {
		t.Fatal("expected terminal state")
	}
	if d.Running() || q.Pending() != 0 {
		t.Error("loop should stop at terminal state")
	}
	if got := d.State()[0]; math.Abs(got-1) > 1e-9 {
		t.Errorf("expected state 1, got %f", got)
	}
	if buf.Rec.Count(gfx.OpClear) != 10 {
		t.Errorf("expected one clear per frame, got %d", buf.Rec.Count(gfx.OpClear))
	}
}

func TestDriverStopIsIdempotent(t *testing.T) {
	d, q, _, _ := mounted(t, ramp{})
	d.Stop()
	d.Stop()
	run(q, 5, time.Now())
	if d.Time() != 0 {
		t.Errorf("stopped driver advanced to t=%f", d.Time())
	}
	d.Start()
	run(q, 2, time.Now())
	if math.Abs(d.Time()-0.2) > 1e-9 {
		t.Errorf("expected t=0.2 after restart, got %f", d.Time())
	}
}

func TestDriverSkipsInvalidParams(t *testing.T) {
	d, q, _, _ := mounted(t, ramp{}, WithParams(map[string]float64{"rate": math.NaN()}))
	run(q, 3, time.Now())
	if d.Time() != 0 || d.State()[0] != 0 {
		t.Errorf("physics advanced with NaN params: t=%f x=%v", d.Time(), d.State())
	}
	if !d.Running() {
		t.Error("invalid params should not stop the loop")
	}
}

func TestDriverSetParam(t *testing.T) {
	d := NewDriver(ramp{})
	var seen []float64
	d.OnChange(func(p dynamo.Params) { seen = append(seen, p.Get("rate")) })

	if err := d.SetParam("rate", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Params().Get("rate") != 3 || len(seen) != 1 || seen[0] != 3 {
		t.Errorf("param change not applied or not reported: %v", seen)
	}

	tests := []struct {
		name  string
		value float64
		want  error
	}{
		{"rate", 11, dynamo.ErrParameterBounds},
		{"rate", math.NaN(), dynamo.ErrInvalidParam},
		{"spin", 1, dynamo.ErrUnknownParam},
	}
	for _, tt := range tests {
		if err := d.SetParam(tt.name, tt.value); !errors.Is(err, tt.want) {
			t.Errorf("SetParam(%s, %v) = %v, want %v", tt.name, tt.value, err, tt.want)
		}
	}
	if d.Params().Get("rate") != 3 {
		t.Error("rejected value leaked into params")
	}
}

func TestDriverResizeRejectsDegenerate(t *testing.T) {
	d, _, _, buf := mounted(t, ramp{})
	if d.Resize(0, 300, 1) || d.Resize(math.NaN(), 300, 1) {
		t.Error("degenerate sizes must be rejected")
	}
	if buf.Resizes != 1 {
		t.Errorf("expected a single allocation, got %d", buf.Resizes)
	}
	if NewDriver(ramp{}).Resize(100, 100, 1) {
		t.Error("unmounted driver cannot resize")
	}
}

func TestDriverChallengeScoresOnce(t *testing.T) {
	d, q, _, buf := mounted(t, ramp{}, WithMode(dynamo.ModeChallenge))
	run(q, 50, time.Now())

	events := d.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	if events[0].Result.Label != "Perfect" {
		t.Errorf("expected Perfect, got %s (actual %f)", events[0].Result.Label, events[0].Actual)
	}
	c := d.Challenge()
	if c.Attempts != 1 || c.CorrectCount != 1 || c.Streak != 1 {
		t.Errorf("unexpected tally %+v", c)
	}
	found := false
	for _, s := range buf.Rec.Texts() {
		if s == "Challenge" {
			found = true
		}
	}
	if !found {
		t.Error("scoreboard not drawn in challenge mode")
	}
}

func TestDriverExploreNeverScores(t *testing.T) {
	d, q, _, _ := mounted(t, ramp{})
	run(q, 50, time.Now())
	if len(d.Events()) != 0 || d.Challenge().Attempts != 0 {
		t.Error("explore mode must not score")
	}
}

func TestDriverResetKeepsTally(t *testing.T) {
	d, q, _, _ := mounted(t, ramp{}, WithMode(dynamo.ModeChallenge))
	now := run(q, 20, time.Now())
	d.Reset()
	if d.Time() != 0 || d.Terminal() || !d.Running() {
		t.Fatal("reset should restart the run")
	}
	run(q, 20, now)
	if d.Challenge().Attempts != 2 {
		t.Errorf("expected 2 attempts across resets, got %d", d.Challenge().Attempts)
	}
}

func TestDriverSetModeStartsFreshTally(t *testing.T) {
	d, q, _, _ := mounted(t, ramp{}, WithMode(dynamo.ModeChallenge))
	run(q, 20, time.Now())
	d.SetMode(dynamo.ModeExplore)
	d.SetMode(dynamo.ModeChallenge)
	if d.Challenge().Attempts != 0 {
		t.Errorf("expected fresh tally, got %+v", d.Challenge())
	}
}

func TestDriverDragUpdatesParams(t *testing.T) {
	d, q, bus, _ := mounted(t, ramp{}, WithParams(map[string]float64{"end": 100}))
	bus.Publish(interact.Event{Kind: interact.PointerDown, X: 10, Y: 10})
	if !d.Drag().Active || d.Drag().Handle != "knob" {
		t.Fatalf("expected knob drag, got %+v", d.Drag())
	}
	bus.Publish(interact.Event{Kind: interact.PointerMove, X: 30, Y: 10})
	if d.Params().Get("rate") != 3 {
		t.Errorf("expected rate 3, got %f", d.Params().Get("rate"))
	}
	run(q, 1, time.Now())
	if d.Time() == 0 {
		t.Error("non-resetting drag should not hold physics")
	}
	bus.Publish(interact.Event{Kind: interact.PointerUp})
	if d.Drag().Active {
		t.Error("drag should end on pointer up")
	}
}

func TestDriverDragMissIgnored(t *testing.T) {
	d, _, bus, _ := mounted(t, ramp{})
	bus.Publish(interact.Event{Kind: interact.PointerDown, X: 200, Y: 10})
	bus.Publish(interact.Event{Kind: interact.PointerMove, X: 30, Y: 10})
	if d.Drag().Active || d.Params().Get("rate") != 1 {
		t.Error("press outside every handle must not drag")
	}
}

func TestDriverResetDragHoldsPhysics(t *testing.T) {
	d, q, bus, _ := mounted(t, ramp{}, WithParams(map[string]float64{"end": 100}))
	now := run(q, 3, time.Now())

	bus.Publish(interact.Event{Kind: interact.PointerDown, X: 10, Y: 10})
	bus.Publish(interact.Event{Kind: interact.PointerMove, X: 20, Y: 150})
	if d.Time() != 0 {
		t.Fatalf("resetting drag should restart the run, t=%f", d.Time())
	}
	now = run(q, 3, now)
	if d.Time() != 0 {
		t.Errorf("physics advanced during a resetting drag, t=%f", d.Time())
	}
	bus.Publish(interact.Event{Kind: interact.PointerLeave})
	run(q, 1, now)
	if math.Abs(d.State()[0]-0.2) > 1e-9 {
		t.Errorf("expected x=0.2 after release, got %f", d.State()[0])
	}
}

func TestDriverUnmount(t *testing.T) {
	d, q, bus, _ := mounted(t, ramp{})
	bus.Publish(interact.Event{Kind: interact.PointerDown, X: 10, Y: 10})
	d.Unmount()
	d.Unmount()

	if q.Pending() != 0 {
		t.Errorf("unmount left %d pending frames", q.Pending())
	}
	if bus.Len() != 0 {
		t.Errorf("unmount left %d listeners", bus.Len())
	}
	if d.Drag().Active || d.Running() || d.Mounted() {
		t.Error("unmounted driver still active")
	}
	bus.Publish(interact.Event{Kind: interact.PointerMove, X: 40, Y: 10})
	if d.Params().Get("rate") != 1 {
		t.Error("events after unmount reached the driver")
	}
}

func TestDriverDetachedElementSkipsDrawing(t *testing.T) {
	d, q, _, buf := mounted(t, ramp{}, WithParams(map[string]float64{"end": 100}))
	buf.Detach()
	run(q, 2, time.Now())
	if len(buf.Rec.Ops) != 0 {
		t.Errorf("drew %d ops into a detached element", len(buf.Rec.Ops))
	}
	if d.Time() == 0 {
		t.Error("physics should keep running without a surface")
	}
}

func TestWorkEnergyChallengeEndToEnd(t *testing.T) {
	d := NewDriver(physics.NewWorkEnergy(),
		WithMode(dynamo.ModeChallenge),
		WithParams(map[string]float64{"targetKE": 50}),
	)
	q := NewFrameQueue()
	d.Mount(surface.NewBuffer(), interact.NewBus(), q)
	d.Resize(800, 500, 1)

	now := time.Now()
	for i := 0; i < 2000 && len(d.Events()) == 0; i++ {
		now = now.Add(16 * time.Millisecond)
		q.Flush(now)
	}
	if len(d.Events()) != 1 {
		t.Fatalf("expected one scoring event, got %d", len(d.Events()))
	}
	if len(d.Popups()) == 0 {
		t.Error("expected a score popup right after the event")
	}
	if d.Challenge().CorrectCount != 1 {
		t.Errorf("expected correct count 1, got %d", d.Challenge().CorrectCount)
	}
	if d.Particles() == 0 {
		t.Error("expected confetti for a correct answer")
	}

	run(q, 2000, now)
	if !d.Terminal() {
		t.Fatal("block should reach the end of the track")
	}
	if len(d.Events()) != 1 {
		t.Errorf("round must fire once, got %d events", len(d.Events()))
	}
}
