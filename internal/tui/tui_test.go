package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/overlaycue/internal/content"
	"github.com/ivlev/overlaycue/internal/stage"
	"github.com/ivlev/overlaycue/internal/timeline"
)

func newModel(t *testing.T) Model {
	t.Helper()
	catalogs, err := content.Defaults()
	require.NoError(t, err)
	page, err := timeline.DefaultSchedule().Page(timeline.PageAbout)
	require.NoError(t, err)
	st, err := stage.New(page.Name, page.Panels, catalogs[page.Name], timeline.English)
	require.NoError(t, err)
	return NewModel(st, timeline.Standard, 500*time.Millisecond, 5)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestTickAdvancesAndLoops(t *testing.T) {
	m := newModel(t)
	assert.False(t, m.State.Active)

	m, cmd := update(t, m, TickMsg{})
	assert.InDelta(t, 0.5, m.Elapsed, 1e-9)
	assert.NotNil(t, cmd, "tick re-arms itself")

	// standard about ends at 80s, loop at 81s
	m.Elapsed = 80.8
	m, _ = update(t, m, TickMsg{})
	assert.InDelta(t, 0.3, m.Elapsed, 1e-9, "clock jumps backward at the loop point")
	assert.False(t, m.State.Active)
}

func TestPauseAndSeek(t *testing.T) {
	m := newModel(t)

	m, _ = update(t, m, key("space"))
	assert.True(t, m.Paused)
	m, _ = update(t, m, TickMsg{})
	assert.Equal(t, 0.0, m.Elapsed)

	m, _ = update(t, m, key("right"))
	assert.Equal(t, 5.0, m.Elapsed)
	assert.True(t, m.State.Active)
	assert.Equal(t, timeline.PanelID(1), m.State.PanelID)

	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, key("left"))
	assert.Equal(t, 0.0, m.Elapsed, "seek clamps at zero")
}

func TestViewportToggle(t *testing.T) {
	m := newModel(t)
	m.Elapsed = 7
	m = m.refresh()
	assert.Equal(t, timeline.PanelID(1), m.State.PanelID)

	m, _ = update(t, m, key("v"))
	assert.Equal(t, timeline.Compact, m.Viewport)
	assert.Equal(t, timeline.PanelID(2), m.State.PanelID)
}

func TestLanguageToggle(t *testing.T) {
	m := newModel(t)
	m.Elapsed = 4
	m = m.refresh()

	m, cmd := update(t, m, key("l"))
	require.NotNil(t, cmd)
	msg := cmd()
	switched, ok := msg.(LanguageSwitchedMsg)
	require.True(t, ok)
	assert.NoError(t, switched.Err)
	assert.Equal(t, timeline.German, switched.Lang)

	m, _ = update(t, m, msg)
	require.NotNil(t, m.State.Content)
	assert.Equal(t, "Über mich", m.State.Content.Title)
	assert.Contains(t, m.View(), "lang: de")
}

func TestLanguageSwitchGoesThroughRegistry(t *testing.T) {
	catalogs, err := content.Defaults()
	require.NoError(t, err)
	registry, err := stage.NewRegistry(timeline.DefaultSchedule(), catalogs, timeline.English)
	require.NoError(t, err)
	st, err := registry.Stage(timeline.PageAbout)
	require.NoError(t, err)

	m := NewModel(st, timeline.Standard, 500*time.Millisecond, 5)
	m.Locale = registry
	m, cmd := update(t, m, key("l"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.NoError(t, m.Err)
	assert.Equal(t, timeline.German, registry.Language())
	assert.Equal(t, timeline.German, st.Language())
	other, err := registry.Stage(timeline.PageCompositions)
	require.NoError(t, err)
	assert.Equal(t, timeline.German, other.Language())
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	m := newModel(t)
	assert.Contains(t, m.View(), "(no panel)")

	// [29,50] lead-in ends at 30.68; 30 is still dark
	m.Elapsed = 30
	m = m.refresh()
	v := m.View()
	assert.Contains(t, v, "#3 body")
	assert.Contains(t, v, " 0.00\n")
	assert.False(t, strings.Contains(v, "█"))

	m.Elapsed = 40
	m = m.refresh()
	v = m.View()
	assert.Contains(t, v, "#3 body")
	assert.Contains(t, v, "viewport: standard")
	assert.Contains(t, v, " 1.00\n")
	assert.Contains(t, v, strings.Repeat("█", barWidth))
}

func TestOpacityColor(t *testing.T) {
	assert.Equal(t, "#303030", string(opacityColor(0)))
	assert.Equal(t, "#FFFFFF", string(opacityColor(1)))
	assert.Equal(t, "#FFFFFF", string(opacityColor(3)))
}
