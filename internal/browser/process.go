package browser

import (
	"os/exec"
	"runtime"

	"github.com/ternarybob/arbor"
)

// browserProcessNames are the process images a stuck chromedp session can
// leave behind
var browserProcessNames = []string{"chrome", "chromium", "headless_shell"}

// KillBrowserProcesses force-terminates orphaned browser processes by
// name. Errors are ignored - the processes may simply not exist.
func KillBrowserProcesses(logger arbor.ILogger) {
	if runtime.GOOS == "windows" {
		for _, name := range browserProcessNames {
			cmd := exec.Command("taskkill", "/F", "/T", "/IM", name+".exe")
			if output, err := cmd.CombinedOutput(); err != nil {
				logger.Debug().
					Str("process", name).
					Str("output", string(output)).
					Msg("taskkill returned non-zero (process likely not running)")
			}
		}
		return
	}

	for _, name := range browserProcessNames {
		cmd := exec.Command("pkill", "-9", "-f", name)
		if err := cmd.Run(); err != nil {
			logger.Debug().
				Str("process", name).
				Msg("pkill returned non-zero (process likely not running)")
		}
	}
}
