// -----------------------------------------------------------------------
// Run history store - persists run summaries in Badger so the runner can
// report flaky tests across runs
// -----------------------------------------------------------------------

package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// Store persists run history in a Badger database
type Store struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// OpenStore opens (or creates) the run-history database at path
func OpenStore(path string, logger arbor.ILogger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger to use arbor

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Run history database opened")
	return &Store{store: store, logger: logger}, nil
}

// Close closes the history database
func (s *Store) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// SaveRun stores a completed run summary
func (s *Store) SaveRun(run *RunSummary) error {
	if run.RunID == "" {
		return fmt.Errorf("run summary has no run ID")
	}
	if err := s.store.Upsert(run.RunID, run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
	}
	s.logger.Debug().Str("run_id", run.RunID).Msg("Run summary saved to history")
	return nil
}

// GetRun loads a run summary by ID
func (s *Store) GetRun(runID string) (*RunSummary, error) {
	var run RunSummary
	if err := s.store.Get(runID, &run); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return &run, nil
}

// RecentRuns returns the n most recent runs, newest first
func (s *Store) RecentRuns(n int) ([]RunSummary, error) {
	var runs []RunSummary
	if err := s.store.Find(&runs, badgerhold.Where("RunID").Ne("").SortBy("Started").Reverse().Limit(n)); err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	return runs, nil
}

// FailureCount returns how many of the last lastN runs had a failure of
// the named test. Used to flag tests that fail repeatedly rather than
// transiently.
func (s *Store) FailureCount(testName string, lastN int) (int, error) {
	runs, err := s.RecentRuns(lastN)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range runs {
		for _, name := range runs[i].FailedTests() {
			if name == testName {
				count++
				break
			}
		}
	}
	return count, nil
}

// FlakyTests returns test names that failed in at least minFailures of
// the last lastN runs, sorted by failure count descending
func (s *Store) FlakyTests(lastN, minFailures int) (map[string]int, error) {
	runs, err := s.RecentRuns(lastN)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for i := range runs {
		seen := make(map[string]bool)
		for _, name := range runs[i].FailedTests() {
			if !seen[name] {
				seen[name] = true
				counts[name]++
			}
		}
	}

	flaky := make(map[string]int)
	for name, count := range counts {
		if count >= minFailures {
			flaky[name] = count
		}
	}
	return flaky, nil
}

// sortedNames returns map keys sorted by value descending, then name.
// Used by the reporters for stable output.
func sortedNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
