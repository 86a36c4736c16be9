package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/overlaycue/internal/timeline"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		if !m.Paused {
			m = m.seek(m.Tick.Seconds())
		}
		return m, tickCmd(m.Tick)
	case LanguageSwitchedMsg:
		// On failure the stage keeps its previous table
		m = m.refresh()
		if msg.Err != nil {
			m.Err = msg.Err
		}
		return m, nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ", "space":
		m.Paused = !m.Paused
	case "left":
		m = m.seek(-m.SeekStep)
	case "right":
		m = m.seek(m.SeekStep)
	case "v", "V":
		if m.Viewport == timeline.Compact {
			m.Viewport = timeline.Standard
		} else {
			m.Viewport = timeline.Compact
		}
		m = m.seek(0)
	case "l", "L":
		locale := m.Locale
		if locale == nil {
			locale = m.Stage
		}
		return m, switchLanguage(locale, nextLanguage(m.Stage.Language()))
	}
	return m, nil
}
