package renderer

import (
	"fmt"
	"strings"

	"github.com/ivlev/overlaycue/internal/timeline"
)

// BuildAlphaExpression creates a piecewise FFmpeg expression over t that
// equals env evaluated on the window's progress
func BuildAlphaExpression(w timeline.Window, env timeline.Envelope) string {
	d := w.End - w.Start
	if d <= 0 {
		return "0"
	}

	leadIn := w.Start + env.LeadIn*d
	fadeInEnd := w.Start + env.FadeInEnd*d
	holdEnd := w.Start + env.HoldEnd*d

	fadeOut := fmt.Sprintf("(%.6f-t)/%.6f", w.End, w.End-holdEnd)
	if env.FloorFadeOut {
		fadeOut = fmt.Sprintf("max(0,%s)", fadeOut)
	}

	// if(lt(t,leadIn),0,if(lt(t,fadeInEnd),ramp,if(lt(t,holdEnd),1,if(lt(t,end),fadeOut,0))))
	return fmt.Sprintf("if(lt(t,%.6f),0,if(lt(t,%.6f),(t-%.6f)/%.6f,if(lt(t,%.6f),1,if(lt(t,%.6f),%s,0))))",
		leadIn,
		fadeInEnd, leadIn, fadeInEnd-leadIn,
		holdEnd,
		w.End, fadeOut)
}

// BuildEnableExpression creates a timeline-editing expression that is
// non-zero inside any of the spans
func BuildEnableExpression(spans []timeline.Span) string {
	if len(spans) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		parts = append(parts, fmt.Sprintf("between(t,%.6f,%.6f)", s.Start, s.End))
	}
	return strings.Join(parts, "+")
}

// SpansByPanel groups spans by panel, keeping order
func SpansByPanel(spans []timeline.Span) map[timeline.PanelID][]timeline.Span {
	out := make(map[timeline.PanelID][]timeline.Span)
	for _, s := range spans {
		out[s.PanelID] = append(out[s.PanelID], s)
	}
	return out
}
