package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"ZEN_EMAIL", "ZEN_PASSWORD", "ZEN_SIGN_IN_URL", "ZEN_LISTINGS_URL",
	"BROWSER_HEADLESS", "BROWSER_TIMEOUT", "PAGE_LOAD_WAIT", "PAGE_POLL_INTERVAL",
	"SCRAPER_RATE_LIMIT_MIN", "SCRAPER_RATE_LIMIT_MAX", "OFFER_MARKER_SELECTOR",
	"SCHEDULE_MIN_INTERVAL", "SCHEDULE_MAX_INTERVAL", "STATUS_ADDR",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "https://account.zenarbitrage.com/sign-in", cfg.Inventory.SignInURL)
	assert.Equal(t, "https://marketplace.zenarbitrage.com/listings", cfg.Inventory.ListingsURL)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Browser.PageLoadWait)
	assert.Equal(t, 250*time.Millisecond, cfg.Browser.PollInterval)
	assert.Equal(t, time.Duration(0), cfg.Scraper.RateLimitMin)
	assert.Equal(t, time.Duration(0), cfg.Scraper.RateLimitMax)
	assert.Equal(t, "#olpOfferList", cfg.Scraper.OfferMarker)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.MinInterval)
	assert.Equal(t, 60*time.Minute, cfg.Schedule.MaxInterval)
	assert.Empty(t, cfg.Status.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	require.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateCredentials())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZEN_EMAIL", "seller@example.com")
	t.Setenv("ZEN_PASSWORD", "secret")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("SCHEDULE_MIN_INTERVAL", "5m")
	t.Setenv("SCHEDULE_MAX_INTERVAL", "10m")
	t.Setenv("STATUS_ADDR", ":8080")
	t.Setenv("PAGE_LOAD_WAIT", "not-a-duration")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "seller@example.com", cfg.Inventory.Email)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Minute, cfg.Schedule.MinInterval)
	assert.Equal(t, 10*time.Minute, cfg.Schedule.MaxInterval)
	assert.Equal(t, ":8080", cfg.Status.Addr)
	assert.Equal(t, 10*time.Second, cfg.Browser.PageLoadWait, "invalid values fall back to the default")
	assert.NoError(t, cfg.ValidateCredentials())
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZEN_PASSWORD", "from-environment")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ZEN_EMAIL=file@example.com\nZEN_PASSWORD=from-file\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file@example.com", cfg.Inventory.Email)
	assert.Equal(t, "from-environment", cfg.Inventory.Password, "existing variables win over the file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "schedule min above max",
			modify: func(c *Config) { c.Schedule.MinInterval = 2 * time.Hour },
			errMsg: "SCHEDULE_MIN_INTERVAL cannot be greater",
		},
		{
			name:   "zero schedule interval",
			modify: func(c *Config) { c.Schedule.MinInterval = 0 },
			errMsg: "SCHEDULE_MIN_INTERVAL must be positive",
		},
		{
			name:   "rate limit min above max",
			modify: func(c *Config) { c.Scraper.RateLimitMin = time.Second },
			errMsg: "SCRAPER_RATE_LIMIT_MIN cannot be greater",
		},
		{
			name:   "non-positive page load wait",
			modify: func(c *Config) { c.Browser.PageLoadWait = 0 },
			errMsg: "PAGE_LOAD_WAIT must be positive",
		},
		{
			name:   "unknown log format",
			modify: func(c *Config) { c.Logging.Format = "xml" },
			errMsg: "LOG_FORMAT must be json or text",
		},
		{
			name:   "empty offer marker",
			modify: func(c *Config) { c.Scraper.OfferMarker = "" },
			errMsg: "OFFER_MARKER_SELECTOR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(missingEnvFile(t))
			require.NoError(t, err)

			tt.modify(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
