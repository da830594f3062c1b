package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/interact"
	"github.com/san-kum/physlab/internal/sim"
)

const (
	sidebarWidth    = 44
	logicalWidth    = 640.0
	historyCapacity = 240
	defaultInterval = time.Second / 60
)

type TickMsg time.Time

// Live runs one driver inside a terminal. Terminal cells become braille
// dots, mouse events become pointer events.
type Live struct {
	reg    *experiment.Registry
	names  []string
	idx    int
	opts   []sim.Option
	logger *log.Logger

	driver *sim.Driver
	queue  *sim.FrameQueue
	bus    *interact.Bus
	canvas *Canvas
	ratio  float64

	selected int
	history  []float64
	paused   bool
	interval time.Duration
	theme    Theme
	st       styles

	width, height int
}

// NewLive builds a Live model for the named simulation. opts apply to
// every driver the model creates, including after switching simulation.
func NewLive(reg *experiment.Registry, name string, interval time.Duration, theme Theme, logger *log.Logger, opts ...sim.Option) (Live, error) {
	if reg == nil {
		reg = experiment.NewRegistry()
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	m := Live{
		reg:      reg,
		names:    reg.List(),
		opts:     opts,
		logger:   logger,
		queue:    sim.NewFrameQueue(),
		bus:      interact.NewBus(),
		canvas:   NewCanvas(1, 1),
		interval: interval,
		theme:    theme,
		st:       newStyles(theme),
		width:    120,
		height:   32,
	}
	for i, n := range m.names {
		if n == name {
			m.idx = i
		}
	}
	if err := m.load(name); err != nil {
		return Live{}, err
	}
	return m, nil
}

func (m *Live) load(name string) error {
	s, err := m.reg.Get(name)
	if err != nil {
		return err
	}
	var mode []sim.Option
	if m.driver != nil {
		mode = append(mode, sim.WithMode(m.driver.Params().Mode))
		m.driver.Unmount()
	}
	opts := append(append([]sim.Option{}, m.opts...), mode...)
	if m.logger != nil {
		opts = append(opts, sim.WithLogger(m.logger))
	}
	m.driver = sim.NewDriver(s, opts...)
	m.driver.Mount(m.canvas, m.bus, m.queue)
	m.selected = 0
	m.history = m.history[:0]
	m.paused = false
	m.resize()
	return nil
}

// resize fits the canvas to the space left of the sidebar. Logical width
// is fixed so layouts look the same at any terminal size.
func (m *Live) resize() {
	cols := max(m.width-sidebarWidth, 10)
	rows := max(m.height-1, 4)
	m.ratio = float64(cols*2) / logicalWidth
	m.driver.Resize(logicalWidth, float64(rows*4)/m.ratio, m.ratio)
}

func (m Live) Driver() *sim.Driver { return m.driver }

func (m Live) Canvas() *Canvas { return m.canvas }

func (m Live) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Init() tea.Cmd { return m.tick() }

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		m.frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Live) frame(now time.Time) {
	if m.queue.Flush(now) == 0 {
		// loop stopped: keep particles and popups moving
		m.driver.Render(now)
	}
	if ch, ok := m.driver.Simulation().(dynamo.Challenger); ok && m.driver.Running() {
		v := ch.Measure(m.driver.State(), m.driver.Params())
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			m.history = append(m.history, v)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
	}
}

func (m *Live) mouse(msg tea.MouseMsg) {
	x := (float64(msg.X)*2 + 1) / m.ratio
	y := (float64(msg.Y)*4 + 2) / m.ratio
	var kind interact.EventKind
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		kind = interact.PointerDown
	case msg.Action == tea.MouseActionMotion:
		kind = interact.PointerMove
	case msg.Action == tea.MouseActionRelease:
		kind = interact.PointerUp
	default:
		return
	}
	if msg.X >= m.canvas.Width && kind != interact.PointerUp {
		kind = interact.PointerLeave
	}
	m.bus.Publish(interact.Event{Kind: kind, X: x, Y: y})
}

func (m Live) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.driver
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		d.Unmount()
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
		if m.paused {
			d.Stop()
		} else {
			d.Start()
		}
	case "r":
		m.paused = false
		m.history = m.history[:0]
		d.Reset()
	case "c":
		if d.Params().Challenge() {
			d.SetMode(dynamo.ModeExplore)
		} else {
			d.SetMode(dynamo.ModeChallenge)
		}
		m.history = m.history[:0]
	case "tab":
		if n := len(d.Simulation().Specs()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "up", "k":
		m.nudge(1)
	case "down", "j":
		m.nudge(-1)
	case "n":
		m.idx = (m.idx + 1) % len(m.names)
		if err := m.load(m.names[m.idx]); err != nil && m.logger != nil {
			m.logger.Error("switch simulation", "err", err)
		}
	case "t":
		m.theme = NextTheme(m.theme)
		m.st = newStyles(m.theme)
	}
	return m, nil
}

// nudge moves the selected parameter by one step, clamped to its range.
func (m *Live) nudge(dir float64) {
	specs := m.driver.Simulation().Specs()
	if len(specs) == 0 {
		return
	}
	spec := specs[m.selected%len(specs)]
	step := spec.Step
	if step <= 0 {
		step = (spec.Max - spec.Min) / 20
	}
	v := spec.Clamp(m.driver.Params().Get(spec.Name) + dir*step)
	if err := m.driver.SetParam(spec.Name, v); err != nil && m.logger != nil {
		m.logger.Warn("param rejected", "err", err)
	}
}

func (m Live) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), m.st.sidebar.Render(m.sidebar()))
}

func (m Live) sidebar() string {
	d := m.driver
	p := d.Params()
	var s strings.Builder

	s.WriteString(GradientText(strings.ToUpper(d.Simulation().Name()), m.theme.Primary, m.theme.Accent) + "\n")
	status := m.st.running.Render("RUNNING")
	switch {
	case m.paused:
		status = m.st.paused.Render("PAUSED")
	case d.Terminal():
		status = m.st.paused.Render("FINISHED")
	}
	s.WriteString(fmt.Sprintf("%s  %s  t=%.2fs\n\n", status, m.st.value.Render(string(p.Mode)), d.Time()))

	for i, spec := range d.Simulation().Specs() {
		line := fmt.Sprintf("%-11s %8.2f %s", spec.Label, p.Get(spec.Name), spec.Unit)
		if i == m.selected {
			s.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.st.value.Render(line) + "\n")
		}
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(sidebarWidth-14),
			asciigraph.Caption("measured"),
			asciigraph.SeriesColors(m.theme.Graph),
		)
		s.WriteString(m.st.graph.Render(chart) + "\n")
	} else {
		s.WriteString("\n")
	}

	if p.Challenge() {
		c := d.Challenge()
		s.WriteString(m.st.title.Render("CHALLENGE") + "\n")
		s.WriteString(m.st.label.Render("Attempts") + m.st.value.Render(fmt.Sprint(c.Attempts)) + "\n")
		s.WriteString(m.st.label.Render("Correct") + m.st.value.Render(fmt.Sprint(c.CorrectCount)) + "\n")
		s.WriteString(m.st.label.Render("Streak") + m.st.value.Render(fmt.Sprintf("%d (best %d)", c.Streak, c.BestStreak)) + "\n")
		s.WriteString(m.st.label.Render("Accuracy") + ProgressBar(c.Accuracy(), 16, m.theme.Good) + "\n")
		if c.LastResult != nil {
			s.WriteString(m.st.label.Render("Last") + m.st.active.Render(c.LastResult.String()) + "\n")
		}
	}

	s.WriteString(m.st.hint.Render("\nSPC pause  r reset  c challenge\nTAB param  ↑↓ tune  n next sim\nt theme  q quit  mouse: drag handles"))
	return s.String()
}
