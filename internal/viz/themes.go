package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme colors the terminal chrome around the canvas. The canvas itself
// keeps the simulation's own colors.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Good    lipgloss.Color
	Bad     lipgloss.Color
	Graph   asciigraph.AnsiColor
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#ff00ff"),
		Accent:  lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Good:    lipgloss.Color("#00ff88"),
		Bad:     lipgloss.Color("#ff4444"),
		Graph:   asciigraph.Cyan,
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Good:    lipgloss.Color("#88ff88"),
		Bad:     lipgloss.Color("#ffff00"),
		Graph:   asciigraph.Green,
	}

	ThemeChalkboard = Theme{
		Name:    "chalkboard",
		Primary: lipgloss.Color("#f8fafc"),
		Accent:  lipgloss.Color("#fbbf24"),
		Text:    lipgloss.Color("#e2e8f0"),
		Muted:   lipgloss.Color("#64748b"),
		Good:    lipgloss.Color("#34d399"),
		Bad:     lipgloss.Color("#f87171"),
		Graph:   asciigraph.Yellow,
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetro, ThemeChalkboard}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme cycles through Themes.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
