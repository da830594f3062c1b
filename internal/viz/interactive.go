package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var simInfo = map[string]string{
	"work-energy": "force, friction and kinetic energy",
	"projectile":  "launch angle and range",
	"spring":      "energy exchange in an oscillator",
}

const (
	stateMenu = iota
	statePresets
	stateLive
)

// Menu picks a simulation and preset, then hands over to a Live model.
type Menu struct {
	reg     *experiment.Registry
	cfg     *config.Config
	logger  *log.Logger
	state   int
	cursor  int
	names   []string
	presets []string
	pcursor int
	live    Live
	err     error
	width   int
	height  int
}

func NewMenu(reg *experiment.Registry, cfg *config.Config, logger *log.Logger) *Menu {
	if reg == nil {
		reg = experiment.NewRegistry()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Menu{reg: reg, cfg: cfg, logger: logger, names: reg.List(), width: 120, height: 32}
}

func (m *Menu) Init() tea.Cmd { return nil }

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	if m.state == stateLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Live)
		return m, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		if m.state == statePresets {
			m.state = stateMenu
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter", " ":
		return m, m.choose()
	}
	return m, nil
}

func (m *Menu) move(d int) {
	if m.state == stateMenu {
		m.cursor = (m.cursor + d + len(m.names)) % len(m.names)
		return
	}
	m.pcursor = (m.pcursor + d + len(m.presets)) % len(m.presets)
}

func (m *Menu) choose() tea.Cmd {
	name := m.names[m.cursor]
	if m.state == stateMenu {
		m.presets = append([]string{"defaults"}, config.ListPresets(name)...)
		m.pcursor = 0
		m.state = statePresets
		return nil
	}

	cfg := *m.cfg
	cfg.Simulation = name
	cfg.Params = nil
	if m.pcursor > 0 {
		if p := config.GetPreset(name, m.presets[m.pcursor]); p != nil {
			cfg.Mode = p.Mode
			cfg.Params = p.Params
		}
	}
	opts := sim.OptionsFromConfig(&cfg)
	live, err := NewLive(m.reg, name, cfg.FrameInterval(), GetTheme(cfg.Display.Theme), m.logger, opts...)
	if err != nil {
		m.err = err
		return nil
	}
	next, _ := live.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.live = next.(Live)
	m.state = stateLive
	return m.live.Init()
}

func (m *Menu) View() string {
	if m.state == stateLive {
		return m.live.View()
	}
	var s strings.Builder
	s.WriteString("\n  " + cyan.Render("physlab") + dim.Render("  interactive physics") + "\n\n")
	if m.state == stateMenu {
		for i, n := range m.names {
			line := fmt.Sprintf("%-12s %s", n, dim.Render(simInfo[n]))
			if i == m.cursor {
				s.WriteString("  " + yellow.Render("> ") + white.Render(line) + "\n")
			} else {
				s.WriteString("    " + line + "\n")
			}
		}
	} else {
		s.WriteString("  " + white.Render(m.names[m.cursor]) + dim.Render(" presets") + "\n\n")
		for i, p := range m.presets {
			mode := dynamo.ModeExplore
			if c := config.GetPreset(m.names[m.cursor], p); c != nil && i > 0 {
				mode = dynamo.Mode(c.Mode)
			}
			line := fmt.Sprintf("%-14s %s", p, dim.Render(string(mode)))
			if i == m.pcursor {
				s.WriteString("  " + yellow.Render("> ") + white.Render(line) + "\n")
			} else {
				s.WriteString("    " + line + "\n")
			}
		}
	}
	if m.err != nil {
		s.WriteString("\n  " + yellow.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n  " + dim.Render("↑↓ select  enter choose  q back/quit") + "\n")
	return s.String()
}
