package report

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/browser"
)

// Open opens a generated page in the default browser.
func Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := browser.OpenFile(abs); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
