package experiment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/interact"
	"github.com/san-kum/physlab/internal/metrics"
	"github.com/san-kum/physlab/internal/scoring"
	"github.com/san-kum/physlab/internal/sim"
	"github.com/san-kum/physlab/internal/surface"
)

// Config describes one headless run.
type Config struct {
	Simulation string
	Mode       dynamo.Mode
	Params     map[string]float64
	Dt         float64
	// Frames caps the run; it stops earlier at the terminal state.
	Frames int
	Width  float64
	Height float64
	// Script is replayed into the pointer bus before the matching frame.
	Script []ScriptedEvent
	// Options are appended after the ones derived from the fields above.
	Options []sim.Option
	// Metrics observe every recorded frame. Nil means metrics.For the
	// simulation.
	Metrics []metrics.Metric
}

// ScriptedEvent is a pointer event injected before frame Frame (0-based).
type ScriptedEvent struct {
	Frame int
	interact.Event
}

type Result struct {
	Simulation string
	States     []dynamo.State
	Times      []float64
	// Measures holds the challenge quantity per frame, when the
	// simulation has one.
	Measures  []float64
	Events    []scoring.Event
	Challenge scoring.ChallengeState
	Terminal  bool
	Params    dynamo.Params
	Metrics   map[string]float64
}

// Experiment drives a simulation frame by frame against an offscreen
// buffer, with a synthetic clock.
type Experiment struct {
	cfg    Config
	reg    *Registry
	driver *sim.Driver
	queue  *sim.FrameQueue
	buffer *surface.Buffer
	bus    *interact.Bus
	logger *log.Logger
	clock  time.Time
}

func New(cfg Config, reg *Registry, logger *log.Logger) *Experiment {
	if reg == nil {
		reg = NewRegistry()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Frames <= 0 {
		cfg.Frames = 1000
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 500
	}
	if cfg.Dt <= 0 {
		cfg.Dt = sim.DefaultDt
	}
	return &Experiment{cfg: cfg, reg: reg, logger: logger, clock: time.Unix(0, 0)}
}

// Setup builds and mounts the driver. Run calls it when needed.
func (e *Experiment) Setup() error {
	s, err := e.reg.Get(e.cfg.Simulation)
	if err != nil {
		return err
	}
	for name, v := range e.cfg.Params {
		spec, ok := dynamo.FindSpec(s.Specs(), name)
		if !ok {
			return &dynamo.ParamError{Name: name, Value: v, Wrapped: dynamo.ErrUnknownParam}
		}
		if err := spec.Check(v); err != nil {
			return err
		}
	}

	opts := []sim.Option{
		sim.WithDt(e.cfg.Dt),
		sim.WithParams(e.cfg.Params),
		sim.WithLogger(e.logger),
	}
	if e.cfg.Mode != "" {
		opts = append(opts, sim.WithMode(e.cfg.Mode))
	}
	opts = append(opts, e.cfg.Options...)

	e.driver = sim.NewDriver(s, opts...)
	e.queue = sim.NewFrameQueue()
	e.buffer = surface.NewBuffer()
	e.bus = interact.NewBus()
	e.driver.Mount(e.buffer, e.bus, e.queue)
	if !e.driver.Resize(e.cfg.Width, e.cfg.Height, 1) {
		return fmt.Errorf("experiment: cannot size surface %gx%g", e.cfg.Width, e.cfg.Height)
	}
	return nil
}

// Run steps the driver until it stops, the frame cap is hit or ctx ends.
// Only the last frame's drawing is kept in the buffer. Events are the ones
// scored during this run; Challenge is the tally since Setup.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.driver == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}
	d := e.driver
	ch, challenger := d.Simulation().(dynamo.Challenger)
	ms := e.cfg.Metrics
	if ms == nil {
		ms = metrics.For(d.Simulation())
	}
	for _, m := range ms {
		m.Reset()
	}

	before := len(d.Events())
	res := &Result{Simulation: e.cfg.Simulation}
	record := func() {
		x, p, t := d.State(), d.Params(), d.Time()
		res.States = append(res.States, x)
		res.Times = append(res.Times, t)
		if challenger {
			res.Measures = append(res.Measures, ch.Measure(x, p))
		}
		for _, m := range ms {
			m.Observe(x, p, t)
		}
	}
	record()

	step := time.Duration(e.cfg.Dt * float64(time.Second))
	for i := 0; i < e.cfg.Frames && d.Running(); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for _, ev := range e.cfg.Script {
			if ev.Frame == i {
				e.bus.Publish(ev.Event)
			}
		}
		e.clock = e.clock.Add(step)
		e.buffer.Rec.Reset()
		e.queue.Flush(e.clock)
		record()
	}

	res.Events = d.Events()[before:]
	res.Challenge = d.Challenge()
	res.Terminal = d.Terminal()
	res.Params = d.Params()
	res.Metrics = metrics.Collect(ms)
	e.logger.Info("experiment finished",
		"simulation", e.cfg.Simulation,
		"frames", len(res.Times)-1,
		"t", d.Time(),
		"events", len(res.Events),
	)
	return res, nil
}

// Reset re-initialises the state for another attempt, keeping the
// challenge tally, so the next Run starts from frame zero.
func (e *Experiment) Reset() {
	if e.driver != nil {
		e.driver.Reset()
	}
}

// Driver exposes the mounted driver, nil before Setup.
func (e *Experiment) Driver() *sim.Driver { return e.driver }

// Buffer holds the drawing of the most recent frame.
func (e *Experiment) Buffer() *surface.Buffer { return e.buffer }

// Pointer injects a pointer event as if it came from the host.
func (e *Experiment) Pointer(ev interact.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}
