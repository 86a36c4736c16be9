package timeline

import (
	"fmt"
	"math"
	"strings"
)

// PanelID identifies a panel within a table
type PanelID int

// Kind selects the opacity envelope and rendering hints of a panel
type Kind int

const (
	Heading Kind = iota + 1
	Body
	Quote
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Body:
		return "body"
	case Quote:
		return "quote"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts the textual form used in schedule files
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heading":
		return Heading, nil
	case "body":
		return Body, nil
	case "quote":
		return Quote, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (k Kind) valid() bool {
	return k == Heading || k == Body || k == Quote
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalYAML() (interface{}, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Viewport is the coarse layout class reported by the viewport classifier.
// The zero value is deliberately invalid so an unset class is rejected.
type Viewport int

const (
	Compact Viewport = iota + 1
	Standard
)

func (v Viewport) String() string {
	switch v {
	case Compact:
		return "compact"
	case Standard:
		return "standard"
	default:
		return fmt.Sprintf("viewport(%d)", int(v))
	}
}

// ParseViewport accepts compact/mobile and standard/desktop
func ParseViewport(s string) (Viewport, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compact", "mobile":
		return Compact, nil
	case "standard", "desktop":
		return Standard, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownViewport, s)
	}
}

func (v Viewport) MarshalText() ([]byte, error) {
	if v != Compact && v != Standard {
		return nil, fmt.Errorf("%w: %d", ErrUnknownViewport, int(v))
	}
	return []byte(v.String()), nil
}

func (v *Viewport) UnmarshalText(b []byte) error {
	parsed, err := ParseViewport(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Language of the content payload. Timing never depends on it.
type Language string

const (
	English Language = "en"
	German  Language = "de"
)

// Languages lists every supported language in display order
var Languages = []Language{English, German}

func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Supported() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return l, nil
}

func (l Language) Supported() bool {
	for _, s := range Languages {
		if l == s {
			return true
		}
	}
	return false
}

// Window is the [Start, End] interval in elapsed seconds during which a panel may be active
type Window struct {
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Contains reports whether t lies inside the window, both ends inclusive
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// Progress maps t onto the window, 0 at Start and 1 at End
func (w Window) Progress(t float64) float64 {
	return (t - w.Start) / (w.End - w.Start)
}

func (w Window) valid() bool {
	if math.IsNaN(w.Start) || math.IsNaN(w.End) || math.IsInf(w.Start, 0) || math.IsInf(w.End, 0) {
		return false
	}
	return w.End > w.Start
}

// WindowSpec is one language-invariant timing row
type WindowSpec struct {
	ID       PanelID `yaml:"id" json:"id"`
	Kind     Kind    `yaml:"kind" json:"kind"`
	Compact  Window  `yaml:"compact" json:"compact"`
	Standard Window  `yaml:"standard" json:"standard"`
}

// Window returns the window for the given viewport class
func (s WindowSpec) Window(vp Viewport) (Window, error) {
	switch vp {
	case Compact:
		return s.Compact, nil
	case Standard:
		return s.Standard, nil
	default:
		return Window{}, fmt.Errorf("%w: %d", ErrUnknownViewport, int(vp))
	}
}

// Content is the localized payload of a panel; the engine never interprets it
type Content struct {
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Body        []string `yaml:"body,omitempty" json:"body,omitempty"`
	Attribution string   `yaml:"attribution,omitempty" json:"attribution,omitempty"`
}

// Text flattens the payload into display lines
func (c Content) Text() string {
	parts := make([]string, 0, len(c.Body)+2)
	if c.Title != "" {
		parts = append(parts, c.Title)
	}
	parts = append(parts, c.Body...)
	if c.Attribution != "" {
		parts = append(parts, "— "+c.Attribution)
	}
	return strings.Join(parts, "\n")
}

// PanelTiming is a timing row merged with the content for one language
type PanelTiming struct {
	WindowSpec `yaml:",inline"`
	Content    Content `yaml:"content" json:"content"`
}
