package timeline

import (
	"math"
	"testing"
)

func TestActiveSpansMatchSelect(t *testing.T) {
	table := aboutTable(t, English)

	for _, vp := range []Viewport{Compact, Standard} {
		spans, err := table.ActiveSpans(vp)
		if err != nil {
			t.Fatalf("ActiveSpans failed: %v", err)
		}

		onEdge := func(ts float64) bool {
			for _, s := range spans {
				if math.Abs(ts-s.Start) < 1e-6 || math.Abs(ts-s.End) < 1e-6 {
					return true
				}
			}
			return false
		}

		for ts := 0.0; ts <= 85; ts += 0.05 {
			if onEdge(ts) {
				continue
			}
			id, ok, err := table.Select(ts, vp)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}

			var covering []PanelID
			for _, s := range spans {
				if ts > s.Start && ts < s.End {
					covering = append(covering, s.PanelID)
				}
			}

			switch {
			case !ok && len(covering) != 0:
				t.Errorf("%s %.2f: no panel selected but spans %v cover it", vp, ts, covering)
			case ok && (len(covering) != 1 || covering[0] != id):
				t.Errorf("%s %.2f: selected %d but spans cover %v", vp, ts, id, covering)
			}
		}
	}
}

func TestActiveSpansTrimOverlap(t *testing.T) {
	table := aboutTable(t, English)

	spans, err := table.ActiveSpans(Compact)
	if err != nil {
		t.Fatalf("ActiveSpans failed: %v", err)
	}
	if len(spans) != 5 {
		t.Fatalf("Expected 5 spans, got %d", len(spans))
	}

	first := spans[0]
	if first.PanelID != 1 || first.Start != 1 || first.End != 6.5 {
		t.Errorf("Expected panel 1 active on [1, 6.5), got %+v", first)
	}
	if first.Window != w(1, 7) {
		t.Errorf("Span must keep the full window for the envelope, got %+v", first.Window)
	}

	for i, s := range spans {
		t.Logf("Span %d: panel=%d kind=%s [%.2f, %.2f]", i, s.PanelID, s.Kind, s.Start, s.End)
	}
}

func TestActiveSpansSplitsContainedPanel(t *testing.T) {
	windows := []WindowSpec{
		{ID: 1, Kind: Body, Compact: w(0, 30), Standard: w(0, 30)},
		{ID: 2, Kind: Quote, Compact: w(10, 20), Standard: w(10, 20)},
	}
	table, err := BuildPanelTable(English, windows, fixtureContent(English, windows))
	if err != nil {
		t.Fatalf("BuildPanelTable failed: %v", err)
	}

	spans, err := table.ActiveSpans(Standard)
	if err != nil {
		t.Fatalf("ActiveSpans failed: %v", err)
	}

	want := []Span{
		{PanelID: 1, Kind: Body, Start: 0, End: 10, Window: w(0, 30)},
		{PanelID: 2, Kind: Quote, Start: 10, End: 20, Window: w(10, 20)},
		{PanelID: 1, Kind: Body, Start: 20, End: 30, Window: w(0, 30)},
	}
	if len(spans) != len(want) {
		t.Fatalf("Expected %d spans, got %d: %+v", len(want), len(spans), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d: expected %+v, got %+v", i, want[i], spans[i])
		}
	}
}

func TestActiveSpansUnknownViewport(t *testing.T) {
	table := aboutTable(t, English)
	if _, err := table.ActiveSpans(Viewport(0)); err == nil {
		t.Error("Expected error for unknown viewport")
	}
}
