package timeline

import "sort"

// Span is an interval during which one panel is the selected panel.
// Bounds are closed on the panel's own window edges and open where another
// panel takes over; consumers that need exact edge semantics use Select.
type Span struct {
	PanelID PanelID `json:"panel_id" yaml:"panel_id"`
	Kind    Kind    `json:"kind" yaml:"kind"`
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	Window  Window  `json:"window" yaml:"window"`
}

// ActiveSpans computes, for each panel, its window minus the windows of all
// panels that beat it in the selection tie-break. The result is sorted by
// start time and contains no zero-length pieces.
func (t *Table) ActiveSpans(vp Viewport) ([]Span, error) {
	if _, err := t.End(vp); err != nil {
		return nil, err
	}

	var spans []Span
	for _, p := range t.panels {
		w, _ := p.Window(vp)
		pieces := []Window{w}
		for _, q := range t.panels {
			if q.ID == p.ID {
				continue
			}
			qw, _ := q.Window(vp)
			if !outranks(qw.Start, q.ID, w.Start, p.ID) {
				continue
			}
			pieces = subtract(pieces, qw)
			if len(pieces) == 0 {
				break
			}
		}
		for _, piece := range pieces {
			spans = append(spans, Span{PanelID: p.ID, Kind: p.Kind, Start: piece.Start, End: piece.End, Window: w})
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].PanelID < spans[j].PanelID
	})
	return spans, nil
}

// subtract removes cut from every piece, dropping empty remainders
func subtract(pieces []Window, cut Window) []Window {
	out := make([]Window, 0, len(pieces)+1)
	for _, p := range pieces {
		if cut.End < p.Start || cut.Start > p.End {
			out = append(out, p)
			continue
		}
		if cut.Start > p.Start {
			out = append(out, Window{Start: p.Start, End: cut.Start})
		}
		if cut.End < p.End {
			out = append(out, Window{Start: cut.End, End: p.End})
		}
	}
	return out
}
