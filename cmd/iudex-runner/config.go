package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RunnerConfig is the iudex-runner.toml configuration
type RunnerConfig struct {
	Runner struct {
		SuitesFile string `toml:"suites_file"` // Suite manifest (YAML)
		OutputDir  string `toml:"output_dir"`
		HistoryDir string `toml:"history_dir"`
		Parallel   int    `toml:"parallel"` // go test -parallel within a suite
	} `toml:"runner"`
	Dashboard struct {
		Port int `toml:"port"` // Live progress dashboard, 0 disables
	} `toml:"dashboard"`
}

// Suite is one entry in the suites manifest
type Suite struct {
	Name    string `yaml:"name"`
	Package string `yaml:"package"`
	Filter  string `yaml:"filter"`  // go test -run expression
	Timeout string `yaml:"timeout"` // Per-suite go test -timeout, e.g. "30m"
}

// TestTimeout parses the suite timeout, defaulting to 30 minutes
func (s *Suite) TestTimeout() time.Duration {
	if s.Timeout == "" {
		return 30 * time.Minute
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// SuiteManifest is the suites.yaml file
type SuiteManifest struct {
	Suites []Suite `yaml:"suites"`
}

// loadRunnerConfig loads iudex-runner.toml from the executable directory
// or the working directory, with defaults for anything unset
func loadRunnerConfig(path string) (*RunnerConfig, error) {
	var config RunnerConfig
	config.Runner.SuitesFile = "suites.yaml"
	config.Runner.OutputDir = "./test/results"
	config.Runner.HistoryDir = "./data/history"
	config.Runner.Parallel = 1

	if path == "" {
		exePath, err := os.Executable()
		if err == nil {
			candidate := filepath.Join(filepath.Dir(exePath), "iudex-runner.toml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
		if path == "" {
			if _, err := os.Stat("iudex-runner.toml"); err == nil {
				path = "iudex-runner.toml"
			}
		}
	}

	// No config file found, run on defaults
	if path == "" {
		return &config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runner config: %w", err)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse runner config: %w", err)
	}
	return &config, nil
}

// loadSuiteManifest reads the YAML suite manifest. A missing file falls
// back to the single built-in UI suite.
func loadSuiteManifest(path string) ([]Suite, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultSuites(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read suite manifest: %w", err)
	}

	var manifest SuiteManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse suite manifest: %w", err)
	}
	if len(manifest.Suites) == 0 {
		return nil, fmt.Errorf("suite manifest %s defines no suites", path)
	}

	for i := range manifest.Suites {
		if manifest.Suites[i].Name == "" || manifest.Suites[i].Package == "" {
			return nil, fmt.Errorf("suite manifest %s: entry %d missing name or package", path, i)
		}
	}
	return manifest.Suites, nil
}

func defaultSuites() []Suite {
	return []Suite{
		{Name: "UI Tests", Package: "./test/ui"},
	}
}
