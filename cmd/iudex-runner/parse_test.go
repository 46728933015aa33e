package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/iudex/internal/reports"
)

const sampleOutput = `=== RUN   TestValidLogin
    login_test.go:31: signed in as plqa_user_01
--- PASS: TestValidLogin (14.21s)
=== RUN   TestInvalidLogin
--- PASS: TestInvalidLogin (6.02s)
=== RUN   TestEmailDelivery
    delivery_test.go:58: delivery modal did not open
    delivery_test.go:59: locator deliveryEmailIcon: none of 2 selectors matched within 10s
--- FAIL: TestEmailDelivery (31.77s)
=== RUN   TestPrintDialog
    delivery_test.go:90: mailbox not configured, skipping
--- SKIP: TestPrintDialog (0.00s)
FAIL
FAIL    github.com/ternarybob/iudex/test/ui     52.101s
`

func TestParseTestOutput(t *testing.T) {
	results := parseTestOutput(sampleOutput)
	require.Len(t, results, 4)

	assert.Equal(t, "TestValidLogin", results[0].Name)
	assert.Equal(t, reports.StatusPassed, results[0].Status)
	assert.Equal(t, 14210*time.Millisecond, results[0].Duration)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, reports.StatusFailed, results[2].Status)
	assert.Contains(t, results[2].Error, "delivery modal did not open")
	assert.Contains(t, results[2].Error, "none of 2 selectors matched")

	assert.Equal(t, reports.StatusSkipped, results[3].Status)
}

func TestParseTestOutputEmpty(t *testing.T) {
	assert.Empty(t, parseTestOutput(""))
	assert.Empty(t, parseTestOutput("# github.com/ternarybob/iudex/test/ui\nbuild failed\n"))
}

func TestParseTestOutputSubtests(t *testing.T) {
	output := `=== RUN   TestFavourites
=== RUN   TestFavourites/add
--- PASS: TestFavourites (5.00s)
    --- PASS: TestFavourites/add (3.10s)
`
	results := parseTestOutput(output)
	require.Len(t, results, 2)
	assert.Equal(t, "TestFavourites", results[0].Name)
	assert.Equal(t, "TestFavourites/add", results[1].Name)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "ui_tests", sanitizeFilename("UI Tests"))
	assert.Equal(t, "smoke_login", sanitizeFilename("Smoke/Login"))
}
