package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/overlaycue/internal/config"
	"github.com/ivlev/overlaycue/internal/renderer"
	"github.com/ivlev/overlaycue/internal/timeline"
)

func TestResolveViewport(t *testing.T) {
	vc := config.ViewportConfig{Breakpoint: 768}

	tests := []struct {
		name    string
		flag    string
		width   int
		want    timeline.Viewport
		wantErr bool
	}{
		{"Named", "compact", 0, timeline.Compact, false},
		{"Alias", "desktop", 0, timeline.Standard, false},
		{"WidthWins", "standard", 400, timeline.Compact, false},
		{"Unknown", "tablet", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveViewport(vc, tt.flag, tt.width)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseViewports(t *testing.T) {
	both, err := parseViewports("both")
	if err != nil || len(both) != 2 {
		t.Fatalf("expected two viewports, got %v (%v)", both, err)
	}
	one, err := parseViewports("mobile")
	if err != nil || len(one) != 1 || one[0] != timeline.Compact {
		t.Errorf("expected [compact], got %v (%v)", one, err)
	}
	if _, err := parseViewports(""); err == nil {
		t.Error("expected error for empty viewport")
	}
}

func TestScheduleLoadingAndExport(t *testing.T) {
	s, err := loadSchedule("")
	if err != nil || len(s.Pages) != 2 {
		t.Fatalf("expected built-in schedule, got %v (%v)", s, err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yaml")
	exportSchedule(s, path)

	loaded, err := loadSchedule(dir)
	if err != nil {
		t.Fatalf("loadSchedule(dir) failed: %v", err)
	}
	if len(loaded.Pages) != 2 {
		t.Errorf("expected 2 pages, got %d", len(loaded.Pages))
	}

	if _, err := loadSchedule(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing schedule")
	}
}

func TestSweepHelpers(t *testing.T) {
	catalogs, err := loadCatalogs("")
	if err != nil {
		t.Fatal(err)
	}
	page, _ := timeline.DefaultSchedule().Page(timeline.PageCompositions)
	lookup, _ := catalogs[page.Name].ForLanguage(timeline.English)
	table, err := timeline.BuildPanelTable(timeline.English, page.Panels, lookup)
	if err != nil {
		t.Fatal(err)
	}

	if d := playDuration(table, timeline.Standard, 0); d != 53 {
		t.Errorf("expected default duration 53, got %v", d)
	}
	if d := playDuration(table, timeline.Standard, 10); d != 10 {
		t.Errorf("expected explicit duration 10, got %v", d)
	}
	if sampleStep(0, 2) != 2 || sampleStep(0.5, 2) != 0.5 {
		t.Error("sampleStep must prefer the flag")
	}

	frames, err := renderer.SampleEvery(table, timeline.Standard, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if line := sweepLine(frames[0]); !strings.HasSuffix(line, "-") {
		t.Errorf("inactive frame line %q", line)
	}
	if line := sweepLine(frames[3]); !strings.Contains(line, "#1 heading") {
		t.Errorf("active frame line %q", line)
	}
	t.Logf("%s", sweepLine(frames[3]))
}

func TestDefaultOutput(t *testing.T) {
	out := defaultOutput("about", timeline.German, "overlay", ".mp4")
	if !strings.HasPrefix(out, filepath.Join("output", "about_de_overlay_")) || !strings.HasSuffix(out, ".mp4") {
		t.Errorf("unexpected output path %q", out)
	}
}
