package timeline

import (
	"fmt"
	"math"
)

// SelectActivePanel returns the panel active at elapsed seconds.
//
// A panel is a candidate when its window for vp contains elapsed (both ends
// inclusive). Among candidates the latest-starting window wins and equal
// starts resolve to the lowest id. The bool result is false when no window
// contains elapsed, which is the normal state before the first panel and
// after the last one.
func SelectActivePanel(panels []PanelTiming, elapsed float64, vp Viewport) (PanelID, bool, error) {
	if vp != Compact && vp != Standard {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownViewport, int(vp))
	}
	if math.IsNaN(elapsed) {
		return 0, false, nil
	}

	var (
		best      PanelID
		bestStart float64
		found     bool
	)
	for _, p := range panels {
		w, _ := p.Window(vp)
		if !w.Contains(elapsed) {
			continue
		}
		if !found || outranks(w.Start, p.ID, bestStart, best) {
			best, bestStart, found = p.ID, w.Start, true
		}
	}
	return best, found, nil
}

// outranks reports whether a panel starting at startA with idA wins the
// tie-break against one starting at startB with idB
func outranks(startA float64, idA PanelID, startB float64, idB PanelID) bool {
	if startA != startB {
		return startA > startB
	}
	return idA < idB
}
