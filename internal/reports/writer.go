package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON writes the run summary as results.json in dir.
// encoding/json is used directly: the results file is the contract the
// CI pipeline parses, and the standard marshaller keeps it stable.
func WriteJSON(run *RunSummary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run summary: %w", err)
	}

	path := filepath.Join(dir, "results.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}
	return path, nil
}

// ReadJSON loads a previously written results.json
func ReadJSON(path string) (*RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var run RunSummary
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &run, nil
}
