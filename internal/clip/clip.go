// Package clip wraps system clipboard access. Writes are fire-and-forget
// side channels; failures surface as ErrIoDenied and leave state untouched.
package clip

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/joss/promptdeck/internal/fault"
)

// Write puts text on the system clipboard.
func Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: clipboard: %v", fault.ErrIoDenied, err)
	}
	return nil
}

// Available reports whether a clipboard backend exists on this system.
func Available() bool {
	return !clipboard.Unsupported
}
