// screenshot_helper.go - Screenshot capture helpers for the UI suite.
// NOTE: This is NOT a test file - it contains shared test infrastructure.

package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/iudex/internal/browser"
)

// saveScreenshot captures the current page and writes it to path
func saveScreenshot(s *browser.Session, path string) error {
	buf, err := s.CaptureScreenshot()
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	return nil
}
