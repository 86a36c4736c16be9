package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/overlaycue/internal/timeline"
)

// TickMsg advances the simulated playback clock
type TickMsg struct {
	Time time.Time
}

// LanguageSwitchedMsg reports the outcome of a locale switch
type LanguageSwitchedMsg struct {
	Lang timeline.Language
	Err  error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func switchLanguage(l Locale, lang timeline.Language) tea.Cmd {
	return func() tea.Msg {
		return LanguageSwitchedMsg{Lang: lang, Err: l.SetLanguage(lang)}
	}
}
