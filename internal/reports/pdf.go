package reports

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders a one-page run summary as report.pdf in dir. Kept
// deliberately tabular: the PDF is what gets attached to stakeholder
// emails, the HTML report carries the detail.
func WritePDF(run *RunSummary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Practical Law UI Test Run", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Run %s on %s", run.RunID, run.Environment), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Started %s, took %s", run.Started.Format("2006-01-02 15:04:05"), formatDuration(run.Duration)), "", 1, "L", false, 0, "")

	passed, failed, skipped := run.Totals()
	pdf.SetFont("Arial", "B", 11)
	verdict := "PASSED"
	if !run.Passed() {
		verdict = "FAILED"
	}
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - %d passed, %d failed, %d skipped", verdict, passed, failed, skipped), "", 1, "L", false, 0, "")

	for i := range run.Suites {
		suite := &run.Suites[i]

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 8, suite.Name, "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, t := range suite.Tests {
			line := fmt.Sprintf("%-8s %s (%s)", t.Status, t.Name, formatDuration(t.Duration))
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
			if t.Error != "" {
				pdf.SetFont("Arial", "I", 8)
				pdf.MultiCell(0, 4, truncate(t.Error, 500), "", "L", false)
				pdf.SetFont("Arial", "", 9)
			}
		}
	}

	path := filepath.Join(dir, "report.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF report: %w", err)
	}
	return path, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
