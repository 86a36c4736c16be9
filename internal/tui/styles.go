package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
const (
	colorPrimary = "#E6B43C"
	colorInfo    = "#626262"
	colorError   = "#FF5F5F"
	colorBorder  = "#3A3A3A"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(1, 2).
			Width(64)

	BarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary))
)

// opacityColor maps opacity onto a grey ramp from the terminal background to white
func opacityColor(opacity float64) lipgloss.Color {
	const lo, hi = 0x30, 0xff
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	v := lo + int(float64(hi-lo)*opacity+0.5)
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", v, v, v))
}
