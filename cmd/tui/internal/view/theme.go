package view

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of styles the views render with. Two palettes ship;
// the profile view toggles between them.
type Palette struct {
	Name string

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Faint    lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Panel     lipgloss.Style

	BarColor lipgloss.Color
}

func Dark() Palette {
	return Palette{
		Name:     "Dark Mode",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Faint:    lipgloss.NewStyle().Faint(true),

		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Underline(true).Padding(0, 2),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2),

		BarColor: lipgloss.Color("39"),
	}
}

func Light() Palette {
	return Palette{
		Name:     "Light Mode",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("27")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("246")),

		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("27")).Bold(true).Underline(true).Padding(0, 2),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("250")).
			Padding(1, 2),

		BarColor: lipgloss.Color("27"),
	}
}

var theme = Dark()

// Theme returns the palette currently in effect.
func Theme() Palette {
	return theme
}

// ToggleTheme flips between the dark and light palettes and returns the
// one now in effect.
func ToggleTheme() Palette {
	if theme.Name == Dark().Name {
		theme = Light()
	} else {
		theme = Dark()
	}

	return theme
}
