// -----------------------------------------------------------------------
// HTML report writer - renders a run summary to a standalone report.html
// -----------------------------------------------------------------------

package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Iudex Run {{.Run.RunID}}</title>
<style>
body { font-family: -apple-system, Segoe UI, Arial, sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #ddd; padding-bottom: 0.3em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #f5f5f5; }
.passed { color: #1a7f37; font-weight: bold; }
.failed { color: #cf222e; font-weight: bold; }
.skipped { color: #9a6700; font-weight: bold; }
.error { font-family: monospace; font-size: 0.85em; white-space: pre-wrap; color: #cf222e; }
.notes { background: #f8f8f8; border-left: 3px solid #ccc; padding: 0.5em 1em; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Practical Law UI Test Run</h1>
<p class="meta">
Run {{.Run.RunID}} on <b>{{.Run.Environment}}</b>,
started {{.Run.Started.Format "2006-01-02 15:04:05"}},
took {{.Duration}}
{{if .Run.Version}}(version {{.Run.Version}}){{end}}
</p>
<p>
<span class="passed">{{.Passed}} passed</span> /
<span class="failed">{{.Failed}} failed</span> /
<span class="skipped">{{.Skipped}} skipped</span>
</p>
{{range .Run.Suites}}
<h2>{{.Name}}</h2>
<table>
<tr><th>Test</th><th>Status</th><th>Duration</th><th>Detail</th></tr>
{{range .Tests}}
<tr>
<td>{{.Name}}</td>
<td class="{{.Status}}">{{.Status}}</td>
<td>{{formatDuration .Duration}}</td>
<td>{{if .Error}}<div class="error">{{.Error}}</div>{{end}}{{if gt .Attempts 1}}<span class="meta">passed on attempt {{.Attempts}}</span>{{end}}</td>
</tr>
{{end}}
</table>
{{end}}
{{if .Notes}}
<h2>Notes</h2>
<div class="notes">{{.Notes}}</div>
{{end}}
</body>
</html>
`

type reportData struct {
	Run      *RunSummary
	Duration string
	Passed   int
	Failed   int
	Skipped  int
	Notes    template.HTML
}

// WriteHTML renders the run summary as report.html in dir. notes is
// optional markdown (flaky-test summary, environment caveats) rendered
// into the report body.
func WriteHTML(run *RunSummary, dir, notes string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatDuration": formatDuration,
	}).Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	passed, failed, skipped := run.Totals()
	data := reportData{
		Run:      run,
		Duration: formatDuration(run.Duration),
		Passed:   passed,
		Failed:   failed,
		Skipped:  skipped,
	}

	if notes != "" {
		rendered, err := markdownToHTML(notes)
		if err != nil {
			return "", err
		}
		data.Notes = template.HTML(rendered)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	path := filepath.Join(dir, "report.html")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// markdownToHTML converts report notes to HTML with GFM extensions
func markdownToHTML(markdown string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(ghtml.WithHardWraps()),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render report notes: %w", err)
	}
	return buf.String(), nil
}

// FlakyNotes formats the flaky-test counts as markdown for the report
func FlakyNotes(counts map[string]int, lastN int) string {
	if len(counts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Flaky tests over the last %d runs:**\n\n", lastN))
	for _, name := range sortedNames(counts) {
		sb.WriteString(fmt.Sprintf("- `%s` failed in %d runs\n", name, counts[name]))
	}
	return sb.String()
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
