// -----------------------------------------------------------------------
// Run result model - shared by the JSON/HTML/PDF writers, the history
// store and the runner
// -----------------------------------------------------------------------

package reports

import "time"

// Test statuses as recorded in results
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// TestResult records a single test's outcome
type TestResult struct {
	Name        string        `json:"name"`
	Status      string        `json:"status"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	Attempts    int           `json:"attempts,omitempty"` // >1 when the test passed after retry
	Screenshots []string      `json:"screenshots,omitempty"`
}

// SuiteResult aggregates one suite's tests
type SuiteResult struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Tests    []TestResult  `json:"tests"`
	Output   string        `json:"output,omitempty"` // Raw runner output for failed suites
}

// Passed reports whether every test in the suite passed or was skipped
func (s *SuiteResult) Passed() bool {
	for _, t := range s.Tests {
		if t.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Counts returns the passed/failed/skipped totals for the suite
func (s *SuiteResult) Counts() (passed, failed, skipped int) {
	for _, t := range s.Tests {
		switch t.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return
}

// RunSummary is the top-level record for one runner invocation
type RunSummary struct {
	RunID       string        `json:"run_id" badgerhold:"key"`
	Environment string        `json:"environment"`
	Started     time.Time     `json:"started"`
	Duration    time.Duration `json:"duration"`
	Suites      []SuiteResult `json:"suites"`
	Version     string        `json:"version,omitempty"`
}

// Passed reports whether the whole run passed
func (r *RunSummary) Passed() bool {
	for i := range r.Suites {
		if !r.Suites[i].Passed() {
			return false
		}
	}
	return true
}

// Totals returns the passed/failed/skipped totals across all suites
func (r *RunSummary) Totals() (passed, failed, skipped int) {
	for i := range r.Suites {
		p, f, s := r.Suites[i].Counts()
		passed += p
		failed += f
		skipped += s
	}
	return
}

// FailedTests returns the names of all failed tests in the run
func (r *RunSummary) FailedTests() []string {
	var names []string
	for _, suite := range r.Suites {
		for _, t := range suite.Tests {
			if t.Status == StatusFailed {
				names = append(names, t.Name)
			}
		}
	}
	return names
}
