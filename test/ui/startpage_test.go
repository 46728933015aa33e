package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/iudex/internal/pages"
)

// TestMakeStartPage sets a practice area as the user's start page,
// verifies the button label flips and that setting it again is a
// no-op, then resets the preference for the next run
func TestMakeStartPage(t *testing.T) {
	utc := NewUITestContext(t)
	defer utc.Cleanup()

	require.NoError(t, utc.LoginAs())
	require.NoError(t, utc.Dashboard().WaitLoaded())
	require.NoError(t, utc.Dashboard().OpenPracticeArea(practiceAreaUnderTest))
	require.NoError(t, utc.PracticeArea().WaitLoaded())

	startPage := utc.StartPage()

	label, err := startPage.ButtonLabel()
	require.NoError(t, err)
	assert.Contains(t, []string{pages.MakeStartPageLabel, pages.CurrentStartPageLabel}, label,
		"start page button carries an unexpected label")

	require.NoError(t, startPage.MakeStartPage())
	utc.Screenshot("start_page_set")

	isStart, err := startPage.IsStartPage()
	require.NoError(t, err)
	assert.True(t, isStart)

	// Setting again must be idempotent
	require.NoError(t, startPage.MakeStartPage())

	require.NoError(t, startPage.ResetToDefault())
	utc.Screenshot("start_page_reset")
}
