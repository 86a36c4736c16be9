package timeline

import (
	"fmt"
	"math"
)

// Envelope maps panel progress to opacity: silent lead-in, linear fade-in,
// hold, linear fade-out that completes exactly at progress 1.
type Envelope struct {
	LeadIn       float64 `yaml:"lead_in" json:"lead_in"`         // fade-in starts
	FadeInEnd    float64 `yaml:"fade_in_end" json:"fade_in_end"` // full opacity reached
	HoldEnd      float64 `yaml:"hold_end" json:"hold_end"`       // fade-out starts
	FloorFadeOut bool    `yaml:"floor_fade_out" json:"floor_fade_out"`
}

var (
	HeadingEnvelope = Envelope{LeadIn: 0.167, FadeInEnd: 0.267, HoldEnd: 0.75, FloorFadeOut: true}
	BodyEnvelope    = Envelope{LeadIn: 0.08, FadeInEnd: 0.16, HoldEnd: 0.85}
)

// EnvelopeFor returns the envelope constants used for a panel kind
func EnvelopeFor(k Kind) (Envelope, error) {
	switch k {
	case Heading:
		return HeadingEnvelope, nil
	case Body, Quote:
		return BodyEnvelope, nil
	default:
		return Envelope{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
}

// At evaluates the raw envelope. The fade-out of an unfloored envelope is
// left as is; Opacity clamps for display.
func (e Envelope) At(progress float64) float64 {
	switch {
	case math.IsNaN(progress), progress < e.LeadIn:
		return 0
	case progress < e.FadeInEnd:
		return (progress - e.LeadIn) / (e.FadeInEnd - e.LeadIn)
	case progress < e.HoldEnd:
		return 1
	case progress < 1:
		v := 1 - (progress-e.HoldEnd)/(1-e.HoldEnd)
		if e.FloorFadeOut && v < 0 {
			v = 0
		}
		return v
	default:
		return 0
	}
}

// Opacity is At clamped to [0, 1]
func (e Envelope) Opacity(progress float64) float64 {
	return clamp01(e.At(progress))
}

// ComputeOpacity returns the opacity of p at elapsed seconds for the given viewport
func ComputeOpacity(p PanelTiming, elapsed float64, vp Viewport) (float64, error) {
	w, err := p.Window(vp)
	if err != nil {
		return 0, err
	}
	env, err := EnvelopeFor(p.Kind)
	if err != nil {
		return 0, err
	}
	if w.Duration() <= 0 {
		return 0, nil
	}
	return env.Opacity(w.Progress(elapsed)), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
