package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the suite configuration
type Config struct {
	Environment string                       `toml:"environment" validate:"required,oneof=uat production"` // Which target environment to run against
	Targets     map[string]TargetConfig      `toml:"targets" validate:"required,min=1,dive"`               // Per-environment target URLs
	Browser     BrowserConfig                `toml:"browser"`
	Timeouts    TimeoutConfig                `toml:"timeouts"`
	Users       UsersConfig                  `toml:"users"`
	Delivery    DeliveryConfig               `toml:"delivery"`
	Output      OutputConfig                 `toml:"output"`
	Logging     LoggingConfig                `toml:"logging"`
}

// TargetConfig holds the URLs for one Practical Law environment
type TargetConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`  // e.g. https://uk.practicallaw.thomsonreuters.com
	SignOnURL string `toml:"signon_url" validate:"required,url"` // e.g. https://signon.thomsonreuters.com
}

// BrowserConfig controls the chromedp session
type BrowserConfig struct {
	Headless     bool          `toml:"headless"`
	WindowWidth  int           `toml:"window_width"`
	WindowHeight int           `toml:"window_height"`
	ExecPath     string        `toml:"exec_path"`     // Optional explicit Chrome binary path
	UserAgent    string        `toml:"user_agent"`    // Override UA when the site gates on it
	NavDelay     time.Duration `toml:"nav_delay"`     // Minimum delay between navigations (politeness against production)
	DownloadDir  string        `toml:"download_dir"`  // Where delivery downloads land
}

// TimeoutConfig holds the explicit wait timeouts used by page objects
type TimeoutConfig struct {
	Element  time.Duration `toml:"element"`  // Wait for a single element (default 10s)
	Page     time.Duration `toml:"page"`     // Wait for page load (default 15s)
	Download time.Duration `toml:"download"` // Wait for a delivery download (default 60s)
	Test     time.Duration `toml:"test"`     // Overall per-test budget (default 5m)
}

// UsersConfig locates the test-user credential pool
type UsersConfig struct {
	CredentialsFile string `toml:"credentials_file"` // TOML file with [[users]] entries
}

// DeliveryConfig configures email delivery verification
type DeliveryConfig struct {
	IMAPHost     string        `toml:"imap_host"`
	IMAPPort     int           `toml:"imap_port"`
	IMAPUsername string        `toml:"imap_username"`
	IMAPPassword string        `toml:"imap_password"`
	IMAPUseTLS   bool          `toml:"imap_use_tls"`
	MailTimeout  time.Duration `toml:"mail_timeout"` // How long to wait for a delivery email
}

// OutputConfig controls where results land
type OutputConfig struct {
	ResultsBaseDir string `toml:"results_base_dir"`
	HistoryDir     string `toml:"history_dir"` // Badger run-history database directory
}

// LoggingConfig mirrors the arbor writer setup
type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig returns the default configuration
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "uat",
		Targets: map[string]TargetConfig{
			"uat": {
				BaseURL:   "https://uk.practicallaw.qed.thomsonreuters.com",
				SignOnURL: "https://signon.qed.thomsonreuters.com",
			},
			"production": {
				BaseURL:   "https://uk.practicallaw.thomsonreuters.com",
				SignOnURL: "https://signon.thomsonreuters.com",
			},
		},
		Browser: BrowserConfig{
			Headless:     true,
			WindowWidth:  1920,
			WindowHeight: 1080,
			NavDelay:     500 * time.Millisecond,
			DownloadDir:  "./downloads",
		},
		Timeouts: TimeoutConfig{
			Element:  10 * time.Second,
			Page:     15 * time.Second,
			Download: 60 * time.Second,
			Test:     5 * time.Minute,
		},
		Users: UsersConfig{
			CredentialsFile: "./users.toml",
		},
		Delivery: DeliveryConfig{
			IMAPPort:    993,
			IMAPUseTLS:  true,
			MailTimeout: 2 * time.Minute,
		},
		Output: OutputConfig{
			ResultsBaseDir: "./results",
			HistoryDir:     "./data/history",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if _, ok := config.Targets[config.Environment]; !ok {
		return nil, fmt.Errorf("environment %q has no [targets.%s] entry", config.Environment, config.Environment)
	}

	return config, nil
}

// applyEnvOverrides applies environment variables over the file config
func applyEnvOverrides(config *Config) {
	// Environment selection (highest priority: IUDEX_ENV, fallback: GO_ENV)
	if env := os.Getenv("IUDEX_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Browser configuration
	if headless := os.Getenv("IUDEX_HEADLESS"); headless != "" {
		config.Browser.Headless = headless == "true" || headless == "1"
	}
	if execPath := os.Getenv("IUDEX_CHROME_PATH"); execPath != "" {
		config.Browser.ExecPath = execPath
	}
	if dir := os.Getenv("IUDEX_DOWNLOAD_DIR"); dir != "" {
		config.Browser.DownloadDir = dir
	}

	// Credentials and mailbox
	if file := os.Getenv("IUDEX_CREDENTIALS_FILE"); file != "" {
		config.Users.CredentialsFile = file
	}
	if pass := os.Getenv("IUDEX_IMAP_PASSWORD"); pass != "" {
		config.Delivery.IMAPPassword = pass
	}
	config.Delivery.IMAPPort = EnvInt("IUDEX_IMAP_PORT", config.Delivery.IMAPPort)

	// Output configuration
	if dir := os.Getenv("IUDEX_RESULTS_DIR"); dir != "" {
		config.Output.ResultsBaseDir = dir
	}

	// Logging configuration
	if level := os.Getenv("IUDEX_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("IUDEX_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// Target returns the target URLs for the configured environment
func (c *Config) Target() TargetConfig {
	return c.Targets[c.Environment]
}

// IsProduction reports whether the suite is pointed at the live site
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// EnvInt reads an integer environment variable with a default
func EnvInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
