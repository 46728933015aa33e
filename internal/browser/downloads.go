package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WaitForDownload polls dir until a file newer than since finishes
// downloading, and returns its path. Chrome writes in-flight downloads
// with a .crdownload suffix; a file counts as complete once its name is
// final and its size has been stable for two polls.
func WaitForDownload(dir string, since time.Time, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	sizes := make(map[string]int64)

	var candidate string
	for time.Now().Before(deadline) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("failed to read download directory: %w", err)
		}

		candidate = ""
		for _, entry := range entries {
			if entry.IsDir() || strings.HasSuffix(entry.Name(), ".crdownload") || strings.HasSuffix(entry.Name(), ".tmp") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(since) {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			candidate = path
			if prev, seen := sizes[path]; seen && prev == info.Size() && info.Size() > 0 {
				return path, nil
			}
			sizes[path] = info.Size()
		}

		time.Sleep(500 * time.Millisecond)
	}

	if candidate != "" {
		return "", fmt.Errorf("download %s did not stabilize within %v", filepath.Base(candidate), timeout)
	}
	return "", fmt.Errorf("no download appeared in %s within %v", dir, timeout)
}
