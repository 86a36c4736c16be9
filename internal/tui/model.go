package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/overlaycue/internal/stage"
	"github.com/ivlev/overlaycue/internal/timeline"
)

// tail is how long the clock runs past the last panel before looping
const tail = 1.0

// Locale switches the language of the tables the player reads.
// *stage.Registry switches every page, *stage.Stage only its own.
type Locale interface {
	SetLanguage(lang timeline.Language) error
}

// Model is a terminal player for one page. It owns the clock; the stage
// only answers queries.
type Model struct {
	Stage    *stage.Stage
	Locale   Locale // defaults to Stage
	Elapsed  float64
	Viewport timeline.Viewport
	Paused   bool
	Tick     time.Duration
	SeekStep float64

	State timeline.FrameState
	Err   error
}

func NewModel(st *stage.Stage, vp timeline.Viewport, tick time.Duration, seek float64) Model {
	m := Model{
		Stage:    st,
		Locale:   st,
		Viewport: vp,
		Tick:     tick,
		SeekStep: seek,
	}
	return m.refresh()
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tickCmd(m.Tick)
}

// loopEnd is where the clock wraps back to zero
func (m Model) loopEnd() float64 {
	end, err := m.Stage.Table().End(m.Viewport)
	if err != nil {
		return tail
	}
	return end + tail
}

func (m Model) refresh() Model {
	st, err := m.Stage.State(m.Elapsed, m.Viewport)
	m.State = st
	m.Err = err
	return m
}

// seek moves the clock by delta seconds, wrapping inside [0, loopEnd)
func (m Model) seek(delta float64) Model {
	end := m.loopEnd()
	t := m.Elapsed + delta
	for t >= end {
		t -= end
	}
	if t < 0 {
		t = 0
	}
	m.Elapsed = t
	return m.refresh()
}

func nextLanguage(cur timeline.Language) timeline.Language {
	for i, l := range timeline.Languages {
		if l == cur {
			return timeline.Languages[(i+1)%len(timeline.Languages)]
		}
	}
	return timeline.Languages[0]
}
