package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/overlaycue/internal/config"
	"github.com/ivlev/overlaycue/internal/renderer"
	"github.com/ivlev/overlaycue/internal/timeline"
)

type Effect interface {
	GenerateFilter(table *timeline.Table, params config.OverlayParams) (string, error)
}

// DrawTextEffect burns every panel as its own drawtext filter. A panel is
// enabled only while it is the selected panel and its alpha follows the
// opacity envelope of its kind.
type DrawTextEffect struct {
	HeadingScale float64 // font size multiplier for headings
	QuoteScale   float64
}

func NewDrawTextEffect() *DrawTextEffect {
	return &DrawTextEffect{HeadingScale: 1.6, QuoteScale: 1.1}
}

func (e *DrawTextEffect) GenerateFilter(table *timeline.Table, p config.OverlayParams) (string, error) {
	if table == nil {
		return "", fmt.Errorf("no panel table")
	}
	spans, err := table.ActiveSpans(p.Viewport)
	if err != nil {
		return "", err
	}
	byPanel := renderer.SpansByPanel(spans)

	filters := []string{aspectFilter(p.Width, p.Height)}
	for _, panel := range table.Panels() {
		ps := byPanel[panel.ID]
		if len(ps) == 0 {
			// Перекрыт другими панелями целиком
			continue
		}
		w, err := panel.Window(p.Viewport)
		if err != nil {
			return "", err
		}
		env, err := timeline.EnvelopeFor(panel.Kind)
		if err != nil {
			return "", err
		}
		filters = append(filters, e.drawText(panel, w, env, ps, p))
	}

	if p.Debug {
		filters = append(filters, "drawtext=text='%{pts\\:hms}':x=10:y=10:fontsize=24:fontcolor=yellow:box=1:boxcolor=black@0.5")
	}
	return strings.Join(filters, ","), nil
}

func (e *DrawTextEffect) drawText(panel timeline.PanelTiming, w timeline.Window, env timeline.Envelope, spans []timeline.Span, p config.OverlayParams) string {
	size := e.fontSize(panel.Kind, p.FontSize)

	// Заголовок сверху, текст по центру кадра
	y := "(h-text_h)/2"
	if panel.Kind == timeline.Heading {
		y = "h*0.2"
	}

	opts := []string{
		fmt.Sprintf("text='%s'", EscapeText(panel.Content.Text())),
		"expansion=none",
	}
	if p.FontFile != "" {
		opts = append(opts, fmt.Sprintf("fontfile='%s'", p.FontFile))
	}
	opts = append(opts,
		fmt.Sprintf("fontsize=%d", size),
		fmt.Sprintf("fontcolor=%s", fontColor(p.FontColor)),
		"x=(w-text_w)/2",
		fmt.Sprintf("y=%s", y),
		"line_spacing=8",
	)
	if p.BoxOpacity > 0 {
		opts = append(opts, "box=1", fmt.Sprintf("boxcolor=black@%.2f", p.BoxOpacity), "boxborderw=16")
	}
	opts = append(opts,
		fmt.Sprintf("alpha='%s'", renderer.BuildAlphaExpression(w, env)),
		fmt.Sprintf("enable='%s'", renderer.BuildEnableExpression(spans)),
	)
	return "drawtext=" + strings.Join(opts, ":")
}

func (e *DrawTextEffect) fontSize(k timeline.Kind, base int) int {
	if base <= 0 {
		base = 36
	}
	scale := 1.0
	switch k {
	case timeline.Heading:
		scale = e.HeadingScale
	case timeline.Quote:
		scale = e.QuoteScale
	}
	if scale <= 0 {
		scale = 1
	}
	return int(float64(base) * scale)
}

func fontColor(c string) string {
	if c == "" {
		return "white"
	}
	return c
}

func aspectFilter(w, h int) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2", w, h, w, h)
}

// textEscaper escapes for the option level; the graph level strips the
// surrounding quotes and passes backslashes through untouched.
var textEscaper = strings.NewReplacer(
	"'", "’",
	`\`, `\\`,
	":", `\:`,
	"%", `\%`,
)

// EscapeText prepares panel text for a single-quoted drawtext value.
// Single quotes cannot be escaped inside quotes, so they become
// typographic apostrophes.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}
