package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("overlaycue · " + m.Stage.Page()))
	b.WriteString("\n")

	status := "▶"
	if m.Paused {
		status = "⏸"
	}
	b.WriteString(fmt.Sprintf("%s  t=%6.2fs / %.2fs   viewport: %s   lang: %s\n\n",
		status, m.Elapsed, m.loopEnd(), m.Viewport, m.Stage.Language()))

	b.WriteString(m.panelView())
	b.WriteString("\n")

	filled := int(m.State.Opacity*barWidth + 0.5)
	b.WriteString(BarStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(InfoStyle.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(fmt.Sprintf(" %.2f\n", m.State.Opacity))

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("error: " + m.Err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("space pause · ←/→ seek · v viewport · l language · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) panelView() string {
	st := m.State
	if !st.Active || st.Content == nil {
		return PanelStyle.Render(InfoStyle.Render("(no panel)"))
	}

	text := lipgloss.NewStyle().Foreground(opacityColor(st.Opacity))
	var lines []string
	header := fmt.Sprintf("#%d %s", st.PanelID, st.Kind)
	lines = append(lines, InfoStyle.Render(header))
	if st.Content.Title != "" {
		lines = append(lines, text.Bold(true).Render(st.Content.Title))
	}
	for _, p := range st.Content.Body {
		lines = append(lines, text.Render(p))
	}
	if st.Content.Attribution != "" {
		lines = append(lines, text.Italic(true).Render("— "+st.Content.Attribution))
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}
