// Package clipboard copies generated filter graphs to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

var ErrEmpty = errors.New("nothing to copy")

// write is swapped in tests; headless CI has no clipboard
var write = clipboard.WriteAll

// Available reports whether a clipboard utility was found
func Available() bool {
	return !clipboard.Unsupported
}

func WriteAll(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}
	if err := write(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
