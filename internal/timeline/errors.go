package timeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateID       = errors.New("duplicate panel id")
	ErrInvalidWindow     = errors.New("window end must be greater than start")
	ErrUnknownKind       = errors.New("unknown panel kind")
	ErrUnknownViewport   = errors.New("unknown viewport class")
	ErrUnknownLanguage   = errors.New("unsupported language")
	ErrMissingContent    = errors.New("panel has no content")
	ErrUnexpectedContent = errors.New("content for undeclared panel")
	ErrUnknownPage       = errors.New("unknown page")
)

// ConfigError reports a panel table that violates a construction invariant.
// It is a programming error: the table is never returned alongside it.
type ConfigError struct {
	Page  string
	Panel PanelID
	Lang  Language
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("overlay config")
	if e.Page != "" {
		fmt.Fprintf(&b, " page=%s", e.Page)
	}
	if e.Lang != "" {
		fmt.Fprintf(&b, " lang=%s", e.Lang)
	}
	if e.Panel != 0 {
		fmt.Fprintf(&b, " panel=%d", e.Panel)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err came from table or schedule validation
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
