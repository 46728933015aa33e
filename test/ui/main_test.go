package ui

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/ternarybob/iudex/internal/browser"
	"github.com/ternarybob/iudex/internal/common"
)

// TestMain verifies the target site is reachable before running any UI
// test, and guarantees browser processes are cleaned up even on panic
func TestMain(m *testing.M) {
	if err := verifySiteConnectivity(); err != nil {
		fmt.Fprintf(os.Stderr, "Target site not reachable, UI tests will be skipped: %v\n", err)
	} else {
		siteReachable = true
	}

	var exitCode int
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "PANIC during test execution: %v\n", r)
				exitCode = 1
			}
			browser.KillBrowserProcesses(common.GetLogger())
		}()
		exitCode = m.Run()
	}()

	os.Exit(exitCode)
}

// verifySiteConnectivity checks the target environment responds over HTTP
func verifySiteConnectivity() error {
	config, err := common.LoadFromFile("config.toml")
	if err != nil {
		return fmt.Errorf("failed to load test config: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(config.Target().BaseURL)
	if err != nil {
		return fmt.Errorf("site not accessible at %s: %w", config.Target().BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("site returned status %d", resp.StatusCode)
	}
	return nil
}
