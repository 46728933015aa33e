// -----------------------------------------------------------------------
// iudex-runner - orchestrates the UI test suites against Practical Law,
// collects results and writes the JSON/HTML/PDF reports
// -----------------------------------------------------------------------

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/iudex/internal/browser"
	"github.com/ternarybob/iudex/internal/common"
	"github.com/ternarybob/iudex/internal/reports"
)

var (
	configPath   = flag.String("c", "", "Runner configuration file (default: iudex-runner.toml)")
	suitesPath   = flag.String("suites", "", "Suite manifest file (overrides config)")
	testFilter   = flag.String("filter", "", "go test -run expression applied to every suite")
	headless     = flag.Bool("headless", true, "Run browsers headless")
	parallel     = flag.Int("parallel", 0, "go test -parallel within a suite (overrides config)")
	logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	history      = flag.Bool("history", true, "Persist the run to the history database")
	schedule     = flag.String("schedule", "", "Cron expression for repeated runs (e.g. '0 6 * * *')")
	servePort    = flag.Int("serve", 0, "Serve the live dashboard on this port (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	logger arbor.ILogger
)

func main() {
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion || *showVersionV {
		fmt.Printf("iudex-runner version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	config, err := loadRunnerConfig(*configPath)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load runner configuration")
	}
	if *suitesPath != "" {
		config.Runner.SuitesFile = *suitesPath
	}
	if *parallel > 0 {
		config.Runner.Parallel = *parallel
	}

	logCfg := common.NewDefaultConfig()
	logCfg.Logging.Level = *logLevel
	logger = common.InitLogger(logCfg)
	if logFile := common.GetLogFilePath(logger); logFile != "" {
		logger.Info().Str("log_file", logFile).Msg("Logging to file")
	}

	common.PrintBanner(common.GetVersion())

	suites, err := loadSuiteManifest(config.Runner.SuitesFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load suite manifest")
	}

	if *servePort != 0 {
		config.Dashboard.Port = *servePort
	}

	var hub *LiveHub
	if config.Dashboard.Port != 0 {
		hub = NewLiveHub(config.Dashboard.Port, logger)
		hub.Start()
		defer hub.Stop()
	}

	if *schedule != "" {
		runOnSchedule(config, suites, hub)
		return
	}

	run := executeRun(config, suites, hub)
	if !run.Passed() {
		os.Exit(1)
	}
}

// runOnSchedule runs the suites on a cron schedule until interrupted
func runOnSchedule(config *RunnerConfig, suites []Suite, hub *LiveHub) {
	c := cron.New()
	_, err := c.AddFunc(*schedule, func() {
		executeRun(config, suites, hub)
	})
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", *schedule).Msg("Invalid cron schedule")
	}

	c.Start()
	logger.Info().Str("schedule", *schedule).Msg("Scheduled runs started, waiting for trigger")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctx := c.Stop()
	<-ctx.Done()
	logger.Info().Msg("Scheduler stopped")
}

// executeRun runs every suite once and writes all reports
func executeRun(config *RunnerConfig, suites []Suite, hub *LiveHub) *reports.RunSummary {
	run := &reports.RunSummary{
		RunID:       common.NewRunID(),
		Environment: strings.TrimSpace(envOrDefault("IUDEX_ENV", "uat")),
		Started:     time.Now(),
		Version:     common.GetVersion(),
	}

	runDir := filepath.Join(config.Runner.OutputDir, fmt.Sprintf("%s-%s", run.RunID, run.Started.Format("2006-01-02_15-04-05")))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		logger.Fatal().Err(err).Str("dir", runDir).Msg("Failed to create run directory")
	}

	logger.Info().
		Str("run_id", run.RunID).
		Str("environment", run.Environment).
		Int("suites", len(suites)).
		Str("output", runDir).
		Msg("Starting run")

	if hub != nil {
		hub.Broadcast(ProgressEvent{Type: "run_started", RunID: run.RunID})
	}

	// Clear out any browsers a previous aborted run left behind
	browser.KillBrowserProcesses(logger)

	for _, suite := range suites {
		if hub != nil {
			hub.Broadcast(ProgressEvent{Type: "suite_started", RunID: run.RunID, Suite: suite.Name})
		}

		result := runSuite(config, suite, runDir)
		run.Suites = append(run.Suites, result)

		passed, failed, skipped := result.Counts()
		event := logger.Info()
		if failed > 0 {
			event = logger.Warn()
		}
		event.
			Str("suite", suite.Name).
			Int("passed", passed).
			Int("failed", failed).
			Int("skipped", skipped).
			Dur("duration", result.Duration).
			Msg("Suite finished")

		if hub != nil {
			hub.Broadcast(ProgressEvent{
				Type: "suite_finished", RunID: run.RunID, Suite: suite.Name,
				Passed: passed, Failed: failed, Skipped: skipped,
			})
		}
	}

	run.Duration = time.Since(run.Started)
	writeReports(config, run, runDir)

	passed, failed, skipped := run.Totals()
	if hub != nil {
		hub.Broadcast(ProgressEvent{
			Type: "run_finished", RunID: run.RunID,
			Passed: passed, Failed: failed, Skipped: skipped,
		})
	}

	if run.Passed() {
		logger.Info().Int("passed", passed).Int("skipped", skipped).Msg("Run passed")
	} else {
		logger.Error().
			Int("passed", passed).
			Int("failed", failed).
			Strs("failed_tests", run.FailedTests()).
			Msg("Run failed")
	}
	return run
}

// runSuite executes one suite via go test and parses its output
func runSuite(config *RunnerConfig, suite Suite, runDir string) reports.SuiteResult {
	started := time.Now()

	suiteDir := filepath.Join(runDir, sanitizeFilename(suite.Name))
	if err := os.MkdirAll(filepath.Join(suiteDir, "screenshots"), 0755); err != nil {
		logger.Error().Err(err).Msg("Failed to create suite directory")
	}
	absSuiteDir, err := filepath.Abs(suiteDir)
	if err != nil {
		absSuiteDir = suiteDir
	}

	args := []string{"test", "-v", "-count=1", "-timeout", suite.TestTimeout().String()}
	if config.Runner.Parallel > 1 {
		args = append(args, "-parallel", fmt.Sprintf("%d", config.Runner.Parallel))
	}
	filter := suite.Filter
	if *testFilter != "" {
		filter = *testFilter
	}
	if filter != "" {
		args = append(args, "-run", filter)
	}
	args = append(args, suite.Package)

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("IUDEX_RESULTS_DIR=%s", absSuiteDir),
		fmt.Sprintf("IUDEX_HEADLESS=%t", *headless),
	)

	output, runErr := cmd.CombinedOutput()
	duration := time.Since(started)

	if err := os.WriteFile(filepath.Join(suiteDir, "test.log"), output, 0644); err != nil {
		logger.Error().Err(err).Msg("Failed to write suite log")
	}

	result := reports.SuiteResult{
		Name:     suite.Name,
		Duration: duration,
		Tests:    parseTestOutput(string(output)),
	}

	// A build failure or panic produces no parseable results; keep the
	// raw output so the report shows what happened
	if runErr != nil && len(result.Tests) == 0 {
		result.Output = string(output)
		result.Tests = append(result.Tests, reports.TestResult{
			Name:   suite.Name,
			Status: reports.StatusFailed,
			Error:  fmt.Sprintf("suite did not produce results: %v", runErr),
		})
	}
	return result
}

// writeReports writes results.json, report.html and report.pdf, and
// persists the run to the history database
func writeReports(config *RunnerConfig, run *reports.RunSummary, runDir string) {
	if _, err := reports.WriteJSON(run, runDir); err != nil {
		logger.Error().Err(err).Msg("Failed to write JSON results")
	}

	notes := ""
	if *history {
		store, err := reports.OpenStore(config.Runner.HistoryDir, logger)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to open history database")
		} else {
			defer store.Close()
			if err := store.SaveRun(run); err != nil {
				logger.Error().Err(err).Msg("Failed to save run history")
			}
			if flaky, err := store.FlakyTests(10, 2); err == nil {
				notes = reports.FlakyNotes(flaky, 10)
			}
		}
	}

	if _, err := reports.WriteHTML(run, runDir, notes); err != nil {
		logger.Error().Err(err).Msg("Failed to write HTML report")
	}
	if _, err := reports.WritePDF(run, runDir); err != nil {
		logger.Error().Err(err).Msg("Failed to write PDF report")
	}
	logger.Info().Str("dir", runDir).Msg("Reports written")
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return strings.ToLower(replacer.Replace(name))
}

func envOrDefault(name, def string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return def
}
