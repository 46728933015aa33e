package main

import (
	"bufio"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/iudex/internal/reports"
)

// resultLine matches go test verbose result lines:
//
//	--- PASS: TestValidLogin (12.34s)
//	    --- FAIL: TestSuite/subtest (0.05s)
var resultLine = regexp.MustCompile(`^\s*--- (PASS|FAIL|SKIP): (\S+) \(([\d.]+)s\)`)

// parseTestOutput extracts per-test results from go test -v output.
// Failed tests get the output block between their RUN and result lines
// attached as the error detail.
func parseTestOutput(output string) []reports.TestResult {
	var results []reports.TestResult

	// Collect output lines per running test so failures carry context
	blocks := make(map[string][]string)
	current := ""

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if name, ok := parseRunLine(line); ok {
			current = name
			continue
		}

		if m := resultLine.FindStringSubmatch(line); m != nil {
			status, name := m[1], m[2]
			duration, _ := time.ParseDuration(m[3] + "s")

			result := reports.TestResult{
				Name:     name,
				Duration: duration,
			}
			switch status {
			case "PASS":
				result.Status = reports.StatusPassed
			case "FAIL":
				result.Status = reports.StatusFailed
				result.Error = strings.TrimSpace(strings.Join(blocks[name], "\n"))
			case "SKIP":
				result.Status = reports.StatusSkipped
			}
			results = append(results, result)
			delete(blocks, name)
			current = ""
			continue
		}

		if current != "" {
			blocks[current] = append(blocks[current], strings.TrimRight(line, " \t"))
		}
	}

	return results
}

func parseRunLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "=== RUN ") {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimPrefix(trimmed, "=== RUN "))
	if name == "" {
		return "", false
	}
	return name, true
}
