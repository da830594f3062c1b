package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/physlab/internal/gfx"
)

type styles struct {
	sidebar lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	hint    lipgloss.Style
	graph   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(sidebarWidth - 2),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Bad),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		graph:   lipgloss.NewStyle().Padding(1, 0),
	}
}

// GradientText colors each rune of text along a gradient.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, b := gfx.Hex(string(from)), gfx.Hex(string(to))

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := gfx.RGB(lerp8(a.R, b.R, t), lerp8(a.G, b.G, t), lerp8(a.B, b.B, t))
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)) + 0.5)
}

// ProgressBar renders a fraction in [0, 1] as a block bar.
func ProgressBar(frac float64, width int, fill lipgloss.Color) string {
	if !(frac > 0) {
		frac = 0
	}
	filled := min(int(frac*float64(width)+0.5), width)
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled)) +
		strings.Repeat("░", width-filled)
}
