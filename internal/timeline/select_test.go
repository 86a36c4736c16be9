package timeline

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func aboutTable(t *testing.T, lang Language) *Table {
	t.Helper()
	page, err := DefaultSchedule().Page(PageAbout)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	table, err := BuildPanelTable(lang, page.Panels, fixtureContent(lang, page.Panels))
	if err != nil {
		t.Fatalf("BuildPanelTable failed: %v", err)
	}
	return table
}

func fixtureContent(lang Language, windows []WindowSpec) map[PanelID]Content {
	content := make(map[PanelID]Content, len(windows))
	for _, w := range windows {
		content[w.ID] = Content{
			Title: fmt.Sprintf("%s title %d", lang, w.ID),
			Body:  []string{fmt.Sprintf("%s body %d", lang, w.ID)},
		}
	}
	return content
}

func TestSelectActivePanel(t *testing.T) {
	table := aboutTable(t, English)

	tests := []struct {
		name     string
		elapsed  float64
		viewport Viewport
		wantID   PanelID
		wantOK   bool
	}{
		{"before first window", 0.5, Standard, 0, false},
		{"negative time", -3, Standard, 0, false},
		{"first window start inclusive", 1.0, Standard, 1, true},
		{"first window end inclusive", 7.0, Standard, 1, true},
		{"gap after panel 1", 7.01, Standard, 0, false},
		{"gap before panel 2", 7.49, Standard, 0, false},
		{"second window start inclusive", 7.5, Standard, 2, true},
		{"touching boundary prefers later start", 29.0, Standard, 3, true},
		{"inside panel 4", 55, Standard, 4, true},
		{"last window end inclusive", 80.0, Standard, 5, true},
		{"after last window", 80.01, Standard, 0, false},
		{"far beyond", 1e6, Standard, 0, false},
		{"compact overlap prefers later start", 7.0, Compact, 2, true},
		{"compact overlap start", 6.5, Compact, 2, true},
		{"compact panel 1 before overlap", 6.49, Compact, 1, true},
		{"compact touching boundary", 27.0, Compact, 3, true},
		{"compact after last", 74.5, Compact, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok, err := table.Select(tt.elapsed, tt.viewport)
			if err != nil {
				t.Fatalf("Select returned error: %v", err)
			}
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("Select(%.2f, %s) = (%d, %v), want (%d, %v)", tt.elapsed, tt.viewport, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestSelectViewportSensitivity(t *testing.T) {
	table := aboutTable(t, English)

	compact, ok, err := table.Select(7.0, Compact)
	if err != nil || !ok {
		t.Fatalf("compact select failed: ok=%v err=%v", ok, err)
	}
	standard, ok, err := table.Select(7.0, Standard)
	if err != nil || !ok {
		t.Fatalf("standard select failed: ok=%v err=%v", ok, err)
	}

	if compact != 2 {
		t.Errorf("Expected compact panel 2 at 7.0s, got %d", compact)
	}
	if standard != 1 {
		t.Errorf("Expected standard panel 1 at 7.0s, got %d", standard)
	}
}

func TestSelectEqualStartPrefersLowerID(t *testing.T) {
	panels := []PanelTiming{
		{WindowSpec: WindowSpec{ID: 7, Kind: Body, Compact: w(10, 20), Standard: w(10, 20)}},
		{WindowSpec: WindowSpec{ID: 3, Kind: Body, Compact: w(10, 15), Standard: w(10, 15)}},
		{WindowSpec: WindowSpec{ID: 9, Kind: Body, Compact: w(2, 30), Standard: w(2, 30)}},
	}

	id, ok, err := SelectActivePanel(panels, 12, Standard)
	if err != nil || !ok {
		t.Fatalf("SelectActivePanel failed: ok=%v err=%v", ok, err)
	}
	if id != 3 {
		t.Errorf("Expected panel 3, got %d", id)
	}

	// Once panel 3 ends, panel 7 still starts later than panel 9
	id, _, _ = SelectActivePanel(panels, 16, Standard)
	if id != 7 {
		t.Errorf("Expected panel 7, got %d", id)
	}
}

func TestSelectRejectsUnknownViewport(t *testing.T) {
	table := aboutTable(t, English)

	for _, vp := range []Viewport{0, Viewport(3), Viewport(-1)} {
		_, ok, err := table.Select(3, vp)
		if !errors.Is(err, ErrUnknownViewport) {
			t.Errorf("viewport %d: expected ErrUnknownViewport, got %v", int(vp), err)
		}
		if ok {
			t.Errorf("viewport %d: expected no panel", int(vp))
		}
	}
}

func TestSelectNaNIsNotAnError(t *testing.T) {
	table := aboutTable(t, English)

	_, ok, err := table.Select(math.NaN(), Standard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("NaN must not select a panel")
	}
}

func TestQueriesAreDeterministic(t *testing.T) {
	table := aboutTable(t, English)

	// Jump around like a looping and seeking video would
	times := []float64{3, 45, 7, 7, 0, 79.9, 29, 2.2, 45, 3}
	first := make(map[float64]FrameState)
	for round := 0; round < 3; round++ {
		for _, ts := range times {
			for _, vp := range []Viewport{Compact, Standard} {
				st, err := table.State(ts, vp)
				if err != nil {
					t.Fatalf("State failed: %v", err)
				}
				key := ts + float64(vp)*1000
				prev, seen := first[key]
				if !seen {
					first[key] = st
					continue
				}
				if prev.PanelID != st.PanelID || prev.Active != st.Active || prev.Opacity != st.Opacity {
					t.Errorf("State(%.2f, %s) changed between calls: %+v vs %+v", ts, vp, prev, st)
				}
			}
		}
	}
}
