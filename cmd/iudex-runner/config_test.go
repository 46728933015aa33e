package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunnerConfigDefaults(t *testing.T) {
	config, err := loadRunnerConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Nil(t, config)

	// Empty path with no discoverable file falls back to defaults
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	config, err = loadRunnerConfig("")
	require.NoError(t, err)
	assert.Equal(t, "suites.yaml", config.Runner.SuitesFile)
	assert.Equal(t, "./test/results", config.Runner.OutputDir)
	assert.Equal(t, 1, config.Runner.Parallel)
	assert.Equal(t, 0, config.Dashboard.Port)
}

func TestLoadRunnerConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iudex-runner.toml")
	content := `
[runner]
suites_file = "custom-suites.yaml"
output_dir = "./out"
parallel = 4

[dashboard]
port = 8099
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := loadRunnerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-suites.yaml", config.Runner.SuitesFile)
	assert.Equal(t, "./out", config.Runner.OutputDir)
	assert.Equal(t, 4, config.Runner.Parallel)
	assert.Equal(t, 8099, config.Dashboard.Port)
}

func TestLoadSuiteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suites.yaml")
	content := `
suites:
  - name: Smoke
    package: ./test/ui
    filter: TestValidLogin|TestConnectivity
    timeout: 10m
  - name: Full UI
    package: ./test/ui
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	suites, err := loadSuiteManifest(path)
	require.NoError(t, err)
	require.Len(t, suites, 2)

	assert.Equal(t, "Smoke", suites[0].Name)
	assert.Equal(t, 10*time.Minute, suites[0].TestTimeout())
	assert.Equal(t, 30*time.Minute, suites[1].TestTimeout(), "missing timeout uses default")
}

func TestLoadSuiteManifestMissingFallsBack(t *testing.T) {
	suites, err := loadSuiteManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, "./test/ui", suites[0].Package)
}

func TestLoadSuiteManifestRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("suites:\n  - name: NoPackage\n"), 0644))

	_, err := loadSuiteManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name or package")
}
