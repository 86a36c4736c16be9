package renderer

import (
	"fmt"
	"math"

	"github.com/ivlev/overlaycue/internal/timeline"
)

// Frame is the overlay state of one output frame
type Frame struct {
	Index int                 `json:"index"`
	Time  float64             `json:"time"`
	State timeline.FrameState `json:"state"`
}

// Sample evaluates the table once per frame over [0, duration) at fps.
// This is the offline playback clock: time is derived from the frame index,
// never accumulated.
func Sample(table *timeline.Table, vp timeline.Viewport, fps int, duration float64) ([]Frame, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}
	return SampleEvery(table, vp, 1/float64(fps), duration)
}

// SampleEvery evaluates the table every step seconds over [0, duration)
func SampleEvery(table *timeline.Table, vp timeline.Viewport, step, duration float64) ([]Frame, error) {
	if table == nil {
		return nil, fmt.Errorf("no panel table")
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("invalid sample step %v", step)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return nil, fmt.Errorf("invalid duration %v", duration)
	}

	total := int(math.Ceil(duration/step - 1e-9))
	frames := make([]Frame, 0, total)
	for i := 0; i < total; i++ {
		elapsed := float64(i) * step
		state, err := table.State(elapsed, vp)
		if err != nil {
			return nil, err
		}
		frames = append(frames, Frame{Index: i, Time: elapsed, State: state})
	}
	return frames, nil
}
