// setup.go - Shared test environment for the Practical Law UI suite.
// NOTE: This is NOT a test file - it contains shared test infrastructure.

package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/iudex/internal/common"
	"github.com/ternarybob/iudex/internal/users"
)

// TestEnvironment holds the configuration, credential pool and results
// directory shared by every test in the suite
type TestEnvironment struct {
	Config     *common.Config
	Pool       *users.Pool
	Logger     arbor.ILogger
	ResultsDir string
}

var (
	sharedEnv     *TestEnvironment
	sharedEnvErr  error
	sharedEnvOnce sync.Once
)

// GetTestEnvironment returns the suite-wide environment, creating it on
// first use. Config comes from config.toml beside the suite with env
// overrides on top.
func GetTestEnvironment() (*TestEnvironment, error) {
	sharedEnvOnce.Do(func() {
		sharedEnv, sharedEnvErr = setupTestEnvironment()
	})
	return sharedEnv, sharedEnvErr
}

func setupTestEnvironment() (*TestEnvironment, error) {
	config, err := common.LoadFromFile(filepath.Join(".", "config.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	logger := common.InitLogger(config)

	pool, err := users.LoadPool(config.Users.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential pool: %w", err)
	}

	resultsDir, err := resolveResultsDir(config)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("base_url", config.Target().BaseURL).
		Int("users", pool.Size()).
		Str("results", resultsDir).
		Msg("Test environment ready")

	return &TestEnvironment{
		Config:     config,
		Pool:       pool,
		Logger:     logger,
		ResultsDir: resultsDir,
	}, nil
}

// resolveResultsDir uses the runner-provided directory when set,
// otherwise creates a timestamped directory under the configured base
func resolveResultsDir(config *common.Config) (string, error) {
	dir := os.Getenv("IUDEX_RESULTS_DIR")
	if dir == "" {
		timestamp := time.Now().Format("run-2006-01-02-15-04-05")
		dir = filepath.Join(config.Output.ResultsBaseDir, timestamp)
	}

	if err := os.MkdirAll(filepath.Join(dir, "screenshots"), 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	return dir, nil
}
