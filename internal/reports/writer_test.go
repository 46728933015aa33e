package reports

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadJSON(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun("run_json", time.Now(), "TestPrintDialog")

	path, err := WriteJSON(run, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "results.json"))

	loaded, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "run_json", loaded.RunID)
	assert.Equal(t, []string{"TestPrintDialog"}, loaded.FailedTests())
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun("run_html", time.Now(), "TestPrintDialog")
	run.Suites[0].Tests[1].Error = `selector "#deliveryLinkRow1Print" <not found>`

	path, err := WriteHTML(run, dir, "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "run_html")
	assert.Contains(t, html, "TestPrintDialog")
	assert.Contains(t, html, "1 passed")
	assert.Contains(t, html, "1 failed")
	// Error text must be escaped, not injected as markup
	assert.Contains(t, html, "&lt;not found&gt;")
}

func TestWriteHTMLWithNotes(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun("run_notes", time.Now())

	notes := FlakyNotes(map[string]int{"TestEmailDelivery": 3}, 10)
	path, err := WriteHTML(run, dir, notes)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TestEmailDelivery")
	assert.Contains(t, string(data), "Flaky tests")
}

func TestWritePDF(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun("run_pdf", time.Now(), "TestPrintDialog")

	path, err := WritePDF(run, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500), "PDF report should not be empty")
}

func TestRunSummaryTotals(t *testing.T) {
	run := &RunSummary{Suites: []SuiteResult{
		{Tests: []TestResult{
			{Name: "a", Status: StatusPassed},
			{Name: "b", Status: StatusFailed},
		}},
		{Tests: []TestResult{
			{Name: "c", Status: StatusSkipped},
			{Name: "d", Status: StatusPassed},
		}},
	}}

	passed, failed, skipped := run.Totals()
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, skipped)
	assert.False(t, run.Passed())
	assert.Equal(t, []string{"b"}, run.FailedTests())
}

func TestFlakyNotesEmpty(t *testing.T) {
	assert.Equal(t, "", FlakyNotes(nil, 10))
}
