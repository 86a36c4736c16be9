package timeline

import (
	"errors"
	"fmt"
	"sort"
)

// Table is an immutable, ordered panel table for one language.
// It is never mutated after BuildPanelTable returns, so any number of
// goroutines may query it without locking.
type Table struct {
	lang   Language
	panels []PanelTiming
	index  map[PanelID]int
}

// FrameState is the answer to one playback query
type FrameState struct {
	Elapsed  float64  `json:"elapsed"`
	Viewport Viewport `json:"viewport"`
	Active   bool     `json:"active"`
	PanelID  PanelID  `json:"panel_id,omitempty"`
	Kind     Kind     `json:"kind,omitempty"`
	Opacity  float64  `json:"opacity"`
	Content  *Content `json:"content,omitempty"`
}

// Layer is a panel whose window contains the queried time, with its envelope opacity
type Layer struct {
	PanelID PanelID `json:"panel_id"`
	Kind    Kind    `json:"kind"`
	Opacity float64 `json:"opacity"`
	Active  bool    `json:"active"`
}

// BuildPanelTable merges the language-invariant timing rows with the
// content for lang. Any missing or surplus content, duplicate id, unknown
// kind or empty window is a *ConfigError and no table is returned.
func BuildPanelTable(lang Language, windows []WindowSpec, content map[PanelID]Content) (*Table, error) {
	if !lang.Supported() {
		return nil, &ConfigError{Lang: lang, Err: ErrUnknownLanguage}
	}
	if err := ValidateWindows(windows); err != nil {
		return nil, withLang(err, lang)
	}

	panels := make([]PanelTiming, 0, len(windows))
	index := make(map[PanelID]int, len(windows))
	for _, w := range windows {
		c, ok := content[w.ID]
		if !ok {
			return nil, &ConfigError{Lang: lang, Panel: w.ID, Err: ErrMissingContent}
		}
		index[w.ID] = len(panels)
		panels = append(panels, PanelTiming{WindowSpec: w, Content: cloneContent(c)})
	}

	// Report surplus ids in a stable order
	var extra []PanelID
	for id := range content {
		if _, ok := index[id]; !ok {
			extra = append(extra, id)
		}
	}
	if len(extra) > 0 {
		sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
		return nil, &ConfigError{Lang: lang, Panel: extra[0], Err: ErrUnexpectedContent}
	}

	return &Table{lang: lang, panels: panels, index: index}, nil
}

// ValidateWindows checks the content-independent invariants of a timing table
func ValidateWindows(windows []WindowSpec) error {
	seen := make(map[PanelID]bool, len(windows))
	for _, w := range windows {
		if seen[w.ID] {
			return &ConfigError{Panel: w.ID, Err: ErrDuplicateID}
		}
		seen[w.ID] = true

		if !w.Kind.valid() {
			return &ConfigError{Panel: w.ID, Err: fmt.Errorf("%w: %d", ErrUnknownKind, int(w.Kind))}
		}
		if !w.Compact.valid() {
			return &ConfigError{Panel: w.ID, Err: fmt.Errorf("%w: compact [%g, %g]", ErrInvalidWindow, w.Compact.Start, w.Compact.End)}
		}
		if !w.Standard.valid() {
			return &ConfigError{Panel: w.ID, Err: fmt.Errorf("%w: standard [%g, %g]", ErrInvalidWindow, w.Standard.Start, w.Standard.End)}
		}
	}
	return nil
}

func withLang(err error, lang Language) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		cp := *ce
		cp.Lang = lang
		return &cp
	}
	return err
}

func cloneContent(c Content) Content {
	if c.Body != nil {
		c.Body = append([]string(nil), c.Body...)
	}
	return c
}

func (t *Table) Language() Language {
	return t.lang
}

func (t *Table) Len() int {
	return len(t.panels)
}

// Panels returns a copy of the ordered panel sequence
func (t *Table) Panels() []PanelTiming {
	out := make([]PanelTiming, len(t.panels))
	for i, p := range t.panels {
		out[i] = p
		out[i].Content = cloneContent(p.Content)
	}
	return out
}

// Panel looks a panel up by id
func (t *Table) Panel(id PanelID) (PanelTiming, bool) {
	i, ok := t.index[id]
	if !ok {
		return PanelTiming{}, false
	}
	p := t.panels[i]
	p.Content = cloneContent(p.Content)
	return p, true
}

// Select is SelectActivePanel over the table
func (t *Table) Select(elapsed float64, vp Viewport) (PanelID, bool, error) {
	return SelectActivePanel(t.panels, elapsed, vp)
}

// State resolves the active panel and its opacity at elapsed seconds
func (t *Table) State(elapsed float64, vp Viewport) (FrameState, error) {
	st := FrameState{Elapsed: elapsed, Viewport: vp}
	id, ok, err := t.Select(elapsed, vp)
	if err != nil || !ok {
		return st, err
	}
	p := t.panels[t.index[id]]
	opacity, err := ComputeOpacity(p, elapsed, vp)
	if err != nil {
		return FrameState{Elapsed: elapsed, Viewport: vp}, err
	}
	c := cloneContent(p.Content)
	st.Active = true
	st.PanelID = id
	st.Kind = p.Kind
	st.Opacity = opacity
	st.Content = &c
	return st, nil
}

// Visible returns every panel whose window contains elapsed, the selected
// one first, then by descending start. Renderers use it to paint the exit
// fade of a panel that has just lost selection.
func (t *Table) Visible(elapsed float64, vp Viewport) ([]Layer, error) {
	id, ok, err := t.Select(elapsed, vp)
	if err != nil {
		return nil, err
	}
	type ranked struct {
		layer Layer
		start float64
	}
	var all []ranked
	for _, p := range t.panels {
		w, _ := p.Window(vp)
		if !w.Contains(elapsed) {
			continue
		}
		opacity, err := ComputeOpacity(p, elapsed, vp)
		if err != nil {
			return nil, err
		}
		all = append(all, ranked{
			layer: Layer{PanelID: p.ID, Kind: p.Kind, Opacity: opacity, Active: ok && p.ID == id},
			start: w.Start,
		})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return outranks(all[i].start, all[i].layer.PanelID, all[j].start, all[j].layer.PanelID)
	})
	layers := make([]Layer, len(all))
	for i, r := range all {
		layers[i] = r.layer
	}
	return layers, nil
}

// End returns the latest window end for the viewport, zero for an empty table
func (t *Table) End(vp Viewport) (float64, error) {
	if vp != Compact && vp != Standard {
		return 0, fmt.Errorf("%w: %d", ErrUnknownViewport, int(vp))
	}
	end := 0.0
	for _, p := range t.panels {
		w, err := p.Window(vp)
		if err != nil {
			return 0, err
		}
		if w.End > end {
			end = w.End
		}
	}
	return end, nil
}
