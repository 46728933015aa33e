package reports

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore(t.TempDir(), arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, started time.Time, failedTests ...string) *RunSummary {
	suite := SuiteResult{Name: "login", Tests: []TestResult{
		{Name: "TestValidLogin", Status: StatusPassed, Duration: 12 * time.Second},
	}}
	for _, name := range failedTests {
		suite.Tests = append(suite.Tests, TestResult{
			Name:   name,
			Status: StatusFailed,
			Error:  "locator signInButton: none of 3 selectors matched",
		})
	}
	return &RunSummary{
		RunID:       id,
		Environment: "uat",
		Started:     started,
		Duration:    time.Minute,
		Suites:      []SuiteResult{suite},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := testStore(t)

	run := sampleRun("run_abc", time.Now())
	require.NoError(t, store.SaveRun(run))

	loaded, err := store.GetRun("run_abc")
	require.NoError(t, err)
	assert.Equal(t, "uat", loaded.Environment)
	assert.Len(t, loaded.Suites, 1)
	assert.True(t, loaded.Passed())
}

func TestSaveRunRequiresID(t *testing.T) {
	store := testStore(t)

	err := store.SaveRun(&RunSummary{})
	require.Error(t, err)
}

func TestGetRunNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetRun("run_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := testStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		run := sampleRun(fmt.Sprintf("run_%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.SaveRun(run))
	}

	runs, err := store.RecentRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run_4", runs[0].RunID)
	assert.Equal(t, "run_2", runs[2].RunID)
}

func TestFailureCount(t *testing.T) {
	store := testStore(t)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, store.SaveRun(sampleRun("run_1", base, "TestEmailDelivery")))
	require.NoError(t, store.SaveRun(sampleRun("run_2", base.Add(time.Minute))))
	require.NoError(t, store.SaveRun(sampleRun("run_3", base.Add(2*time.Minute), "TestEmailDelivery")))

	count, err := store.FailureCount("TestEmailDelivery", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.FailureCount("TestValidLogin", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFlakyTests(t *testing.T) {
	store := testStore(t)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, store.SaveRun(sampleRun("run_1", base, "TestEmailDelivery", "TestMakeStartPage")))
	require.NoError(t, store.SaveRun(sampleRun("run_2", base.Add(time.Minute), "TestEmailDelivery")))
	require.NoError(t, store.SaveRun(sampleRun("run_3", base.Add(2*time.Minute))))

	flaky, err := store.FlakyTests(10, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"TestEmailDelivery": 2}, flaky)
}
