package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "uat", config.Environment)
	assert.True(t, config.Browser.Headless)
	assert.Equal(t, 10*time.Second, config.Timeouts.Element)
	assert.Contains(t, config.Targets, "uat")
	assert.Contains(t, config.Targets, "production")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "iudex.toml")

	content := `
environment = "production"

[browser]
headless = false
window_width = 1280
window_height = 720

[timeouts]
element = "5s"

[logging]
level = "debug"
output = ["stdout"]
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, 1280, config.Browser.WindowWidth)
	assert.Equal(t, 5*time.Second, config.Timeouts.Element)
	assert.Equal(t, "debug", config.Logging.Level)

	// Unset values keep their defaults
	assert.Equal(t, 60*time.Second, config.Timeouts.Download)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/iudex.toml")
	require.Error(t, err)
}

func TestLoadFromFileRejectsUnknownEnvironment(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "iudex.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`environment = "staging"`), 0644))

	_, err := LoadFromFile(configPath)
	require.Error(t, err)
}

func TestLoadFromFileRejectsInvalidTargetURL(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "iudex.toml")

	content := `
environment = "uat"

[targets.uat]
base_url = "not-a-url"
signon_url = "https://signon.qed.thomsonreuters.com"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	_, err := LoadFromFile(configPath)
	require.Error(t, err, "a malformed target URL must fail validation, not navigation")
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadFromFileRejectsIncompleteTarget(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "iudex.toml")

	// Every target entry must carry both URLs, not just the active one
	content := `
environment = "uat"

[targets.demo]
signon_url = "https://signon.demo.thomsonreuters.com"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	_, err := LoadFromFile(configPath)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IUDEX_ENV", "production")
	t.Setenv("IUDEX_HEADLESS", "false")
	t.Setenv("IUDEX_LOG_LEVEL", "warn")
	t.Setenv("IUDEX_LOG_OUTPUT", "stdout, file")

	config, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.True(t, config.IsProduction())
}

func TestEnvInt(t *testing.T) {
	t.Setenv("IUDEX_TEST_INT", "42")
	assert.Equal(t, 42, EnvInt("IUDEX_TEST_INT", 7))
	assert.Equal(t, 7, EnvInt("IUDEX_TEST_INT_UNSET", 7))

	t.Setenv("IUDEX_TEST_INT", "not-a-number")
	assert.Equal(t, 7, EnvInt("IUDEX_TEST_INT", 7))
}

func TestIMAPPortOverride(t *testing.T) {
	t.Setenv("IUDEX_IMAP_PORT", "1143")

	config, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, 1143, config.Delivery.IMAPPort)
}

func TestTargetForEnvironment(t *testing.T) {
	config := NewDefaultConfig()
	config.Environment = "production"

	target := config.Target()
	assert.Equal(t, "https://uk.practicallaw.thomsonreuters.com", target.BaseURL)
	assert.Equal(t, "https://signon.thomsonreuters.com", target.SignOnURL)
}
