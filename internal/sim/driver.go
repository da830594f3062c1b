package sim

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/physlab/internal/audio"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/interact"
	"github.com/san-kum/physlab/internal/particles"
	"github.com/san-kum/physlab/internal/scoring"
	"github.com/san-kum/physlab/internal/surface"
)

const (
	DefaultDt    = 0.02
	confettiBase = 8
)

var defaultBackground = gfx.Hex("#0f172a")

// Driver runs one simulation on one surface. It owns the physical state,
// the control parameters, the particle system and the challenge tally.
// Frames, pointer events and host calls must all come from the same
// goroutine.
type Driver struct {
	sim    dynamo.Simulation
	params dynamo.Params
	state  dynamo.State
	t      float64
	dt     float64

	ps        *particles.System
	challenge scoring.ChallengeState
	round     *scoring.Round
	popups    []scoring.Popup
	events    []scoring.Event
	bands     scoring.Bands
	tolerance float64
	window    float64
	popupLife time.Duration

	surface    *surface.Manager
	clamp      surface.Clamp
	background gfx.Color
	sliver     float64
	loop       *Loop
	drag       *interact.Handler
	unbind     func()
	handle     string
	holding    bool
	terminal   bool

	onChange []func(dynamo.Params)
	audio    audio.Player
	logger   *log.Logger
}

func NewDriver(s dynamo.Simulation, opts ...Option) *Driver {
	d := &Driver{
		sim:        s,
		params:     s.Defaults(),
		dt:         DefaultDt,
		bands:      scoring.DefaultBands,
		tolerance:  1,
		window:     0.03,
		popupLife:  scoring.DefaultPopupLifetime,
		background: defaultBackground,
		audio:      audio.Silent{},
		logger:     defaultLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.ps == nil {
		d.ps = particles.NewSystem()
	}
	if d.params.Mode == "" {
		d.params.Mode = dynamo.ModeExplore
	}
	if d.params.Challenge() {
		d.challenge = scoring.NewChallengeState()
	}
	d.restart()
	return d
}

// Mount attaches the driver to a drawable element, a pointer source and a
// frame scheduler, and starts the loop. A mounted driver is unmounted
// first.
func (d *Driver) Mount(el surface.Element, src interact.Source, sched Scheduler) {
	if d.loop != nil {
		d.Unmount()
	}
	d.surface = surface.New(el, d.clamp)
	d.drag, d.unbind = interact.Bind(src, interact.Callbacks{
		OnDragStart: d.dragStart,
		OnDrag:      d.dragMove,
		OnDragEnd:   d.dragEnd,
	})
	d.loop = NewLoop(sched, d.Tick)
	d.logger.Info("mounted", "simulation", d.sim.Name(), "mode", d.params.Mode)
	d.loop.Start()
}

// Unmount cancels the pending frame and removes the drag listeners. Any
// drag in progress ends.
func (d *Driver) Unmount() {
	if d.loop == nil {
		return
	}
	d.loop.Stop()
	d.loop = nil
	if d.unbind != nil {
		d.unbind()
		d.unbind = nil
	}
	d.drag = nil
	d.surface = nil
	d.logger.Info("unmounted", "simulation", d.sim.Name())
}

func (d *Driver) Mounted() bool { return d.loop != nil }

// Resize forwards the host's size change to the surface.
func (d *Driver) Resize(w, h, ratio float64) bool {
	if d.surface == nil {
		return false
	}
	ok := d.surface.Resize(w, h, ratio)
	if !ok {
		d.logger.Debug("resize ignored", "w", w, "h", h, "ratio", ratio)
	}
	return ok
}

func (d *Driver) Start() {
	if d.loop == nil {
		return
	}
	if !d.loop.Running() {
		d.logger.Info("started", "simulation", d.sim.Name())
	}
	d.loop.Start()
}

// Stop halts the loop. It is safe to call repeatedly or while unmounted.
func (d *Driver) Stop() {
	if d.loop == nil || !d.loop.Running() {
		return
	}
	d.loop.Stop()
	d.logger.Info("stopped", "simulation", d.sim.Name())
}

func (d *Driver) Running() bool { return d.loop != nil && d.loop.Running() }

// Reset re-initialises the physical state from the current params and
// starts a new challenge round. The challenge tally is kept.
func (d *Driver) Reset() {
	d.restart()
	d.audio.PlaySFX(audio.SFXReset)
	if d.loop != nil && !d.loop.Running() {
		d.loop.Start()
	}
}

func (d *Driver) restart() {
	d.state = d.sim.Init(d.params)
	d.t = 0
	d.terminal = false
	d.round = nil
	if d.params.Challenge() {
		if _, ok := d.sim.(dynamo.Challenger); ok {
			d.round = scoring.NewRound(0, d.window, d.tolerance, d.bands)
		}
	}
}

// SetParam validates and applies one control parameter. The run continues
// with the new value.
func (d *Driver) SetParam(name string, v float64) error {
	spec, ok := dynamo.FindSpec(d.sim.Specs(), name)
	if !ok {
		return &dynamo.ParamError{Name: name, Value: v, Wrapped: dynamo.ErrUnknownParam}
	}
	if err := spec.Check(v); err != nil {
		return err
	}
	d.params = d.params.With(name, v)
	d.changed()
	return nil
}

// SetMode switches between explore and challenge. Entering challenge mode
// starts a fresh tally; either way the run restarts.
func (d *Driver) SetMode(m dynamo.Mode) {
	if m == d.params.Mode {
		return
	}
	d.params = d.params.Clone()
	d.params.Mode = m
	if m == dynamo.ModeChallenge {
		d.challenge = scoring.NewChallengeState()
	}
	d.logger.Info("mode", "simulation", d.sim.Name(), "mode", m)
	d.changed()
	d.Reset()
}

// OnChange registers fn to run whenever params change.
func (d *Driver) OnChange(fn func(dynamo.Params)) {
	if fn != nil {
		d.onChange = append(d.onChange, fn)
	}
}

func (d *Driver) changed() {
	for _, fn := range d.onChange {
		fn(d.params.Clone())
	}
}

// Tick runs one frame: physics, then particles and scoring, then drawing.
// It returns false once the simulation reached its terminal state.
func (d *Driver) Tick(now time.Time) bool {
	d.step(now)
	d.ps.Update(d.dt)
	d.draw(now)
	return !d.terminal
}

// Render redraws without advancing physics, letting particles and popups
// play out after the loop stopped.
func (d *Driver) Render(now time.Time) {
	d.ps.Update(d.dt)
	d.draw(now)
}

func (d *Driver) step(now time.Time) {
	if d.holding || d.terminal {
		return
	}
	if err := d.params.Validate(); err != nil {
		d.logger.Debug("frame skipped", "err", err)
		return
	}

	prev := d.state
	next := d.sim.Update(prev, d.params, d.dt)
	if !next.IsValid() {
		d.logger.Debug("frame rejected", "err", dynamo.ErrInvalidState, "t", d.t)
		return
	}
	d.state = next
	d.t += d.dt

	f := d.frame()
	if em, ok := d.sim.(dynamo.Emitter); ok {
		em.Emit(d.ps, prev, f, d.dt)
	}
	d.terminal = d.sim.Terminal(next, d.params)

	if ev, ok := d.observe(f); ok {
		d.apply(ev, now)
	}
	if d.terminal {
		if ev, ok := d.finish(f); ok {
			d.apply(ev, now)
		}
		d.logger.Info("run finished", "simulation", d.sim.Name(), "t", d.t)
	}
}

func (d *Driver) challenger() (dynamo.Challenger, bool) {
	if d.round == nil || !d.params.Challenge() {
		return nil, false
	}
	ch, ok := d.sim.(dynamo.Challenger)
	return ch, ok
}

func (d *Driver) observe(f dynamo.Frame) (scoring.Event, bool) {
	ch, ok := d.challenger()
	if !ok {
		return scoring.Event{}, false
	}
	if es, ok := d.sim.(dynamo.EndScorer); ok && es.ScoresAtEnd() {
		return scoring.Event{}, false
	}
	d.round.Target = ch.Target(d.state, d.params)
	return d.round.Observe(ch.Measure(d.state, d.params), ch.ScoreAnchor(f))
}

func (d *Driver) finish(f dynamo.Frame) (scoring.Event, bool) {
	ch, ok := d.challenger()
	if !ok {
		return scoring.Event{}, false
	}
	d.round.Target = ch.Target(d.state, d.params)
	return d.round.Finish(ch.Measure(d.state, d.params), ch.ScoreAnchor(f))
}

// apply is the only place score events change driver state.
func (d *Driver) apply(ev scoring.Event, now time.Time) {
	d.challenge = scoring.UpdateChallengeState(d.challenge, ev.Result)
	d.popups = append(d.popups, scoring.NewPopup(ev.Result, ev.Anchor.X, ev.Anchor.Y, now, d.popupLife))
	if ev.Result.Correct() {
		d.ps.Emit(particles.KindConfetti, ev.Anchor, confettiBase+ev.Result.Points/5, particles.EmitParams{})
	}
	d.audio.PlayScore(ev.Result.Points)
	d.events = append(d.events, ev)
	d.logger.Debug("scored",
		"simulation", d.sim.Name(),
		"label", ev.Result.Label,
		"points", ev.Result.Points,
		"actual", ev.Actual,
		"target", ev.Target,
	)
}

func (d *Driver) draw(now time.Time) {
	var ctx gfx.Context
	if d.surface != nil {
		ctx = d.surface.Context()
	}
	if ctx == nil {
		d.popups = scoring.FilterPopups(nil, d.popups, now)
		return
	}

	f := d.frame()
	ctx.Clear(d.background)
	d.sim.Draw(ctx, f)
	d.ps.Draw(ctx)
	d.popups = scoring.FilterPopups(ctx, d.popups, now)
	if d.params.Challenge() {
		scoring.RenderScoreboard(ctx, 16, f.Height-126, 150, 110, d.challenge)
	}
}

func (d *Driver) frame() dynamo.Frame {
	f := dynamo.Frame{
		State:       d.state,
		Params:      d.params,
		Time:        d.t,
		Handle:      d.handle,
		MeterSliver: d.sliver,
	}
	if d.surface != nil {
		f.Width, f.Height = d.surface.Size()
	}
	return f
}

func (d *Driver) dragStart(x, y float64) (string, bool) {
	dr, ok := d.sim.(dynamo.Draggable)
	if !ok {
		return "", false
	}
	handle, ok := dr.Grab(d.frame(), x, y)
	if !ok {
		return "", false
	}
	d.handle = handle
	d.audio.PlaySFX(audio.SFXGrab)
	d.logger.Debug("drag start", "handle", handle, "x", x, "y", y)
	return handle, true
}

func (d *Driver) dragMove(x, y float64) {
	dr, ok := d.sim.(dynamo.Draggable)
	if !ok || d.handle == "" {
		return
	}
	p, reset := dr.Drag(d.frame(), d.handle, x, y)
	p.Mode = d.params.Mode
	d.params = p
	if reset {
		d.holding = true
		d.restart()
	}
	d.changed()
}

func (d *Driver) dragEnd() {
	d.logger.Debug("drag end", "handle", d.handle)
	d.handle = ""
	d.audio.PlaySFX(audio.SFXRelease)
	if d.holding {
		d.holding = false
		if d.loop != nil && !d.loop.Running() {
			d.loop.Start()
		}
	}
}

// Accessors return copies; callers never see driver-owned storage.

func (d *Driver) Simulation() dynamo.Simulation { return d.sim }

func (d *Driver) Params() dynamo.Params { return d.params.Clone() }

func (d *Driver) State() dynamo.State { return d.state.Clone() }

func (d *Driver) Time() float64 { return d.t }

func (d *Driver) Dt() float64 { return d.dt }

func (d *Driver) Terminal() bool { return d.terminal }

func (d *Driver) Challenge() scoring.ChallengeState { return d.challenge }

func (d *Driver) Popups() []scoring.Popup {
	out := make([]scoring.Popup, len(d.popups))
	copy(out, d.popups)
	return out
}

func (d *Driver) Events() []scoring.Event {
	out := make([]scoring.Event, len(d.events))
	copy(out, d.events)
	return out
}

func (d *Driver) Particles() int { return d.ps.Len() }

// Drag returns the current drag session.
func (d *Driver) Drag() interact.Session {
	if d.drag == nil {
		return interact.Session{}
	}
	return d.drag.Session()
}
