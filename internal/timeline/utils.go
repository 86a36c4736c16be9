package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateSchedulePath creates a timestamped schedule filename in dir
func GenerateSchedulePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("schedule_%s.yaml", timestamp))
}

// FindLatestSchedule finds the most recently modified schedule file in dir
func FindLatestSchedule(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read schedules directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var schedules []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		schedules = append(schedules, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(schedules) == 0 {
		return "", fmt.Errorf("no schedule files found in %s", dir)
	}

	// Newest first
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].modTime.After(schedules[j].modTime)
	})

	return schedules[0].path, nil
}
