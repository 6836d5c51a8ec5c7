package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/maltedev/fba-price-sync/internal/inventory"
)

type Config struct {
	Inventory InventoryConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Schedule  ScheduleConfig
	Status    StatusConfig
	Logging   LoggingConfig
}

type InventoryConfig struct {
	Email       string
	Password    string
	SignInURL   string
	ListingsURL string
}

type BrowserConfig struct {
	Headless     bool
	Timeout      time.Duration
	PageLoadWait time.Duration
	PollInterval time.Duration
}

type ScraperConfig struct {
	RateLimitMin time.Duration
	RateLimitMax time.Duration
	OfferMarker  string
}

type ScheduleConfig struct {
	MinInterval time.Duration
	MaxInterval time.Duration
}

type StatusConfig struct {
	// Addr is the listen address of the status API; empty disables it.
	Addr string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from the environment. Variables from envFiles
// (".env" when none are given) are loaded first without overriding variables
// that are already set; missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	cfg := &Config{
		Inventory: InventoryConfig{
			Email:       os.Getenv("ZEN_EMAIL"),
			Password:    os.Getenv("ZEN_PASSWORD"),
			SignInURL:   getEnvOrDefault("ZEN_SIGN_IN_URL", inventory.DefaultSignInURL),
			ListingsURL: getEnvOrDefault("ZEN_LISTINGS_URL", inventory.DefaultListingsURL),
		},
		Browser: BrowserConfig{
			Headless:     getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:      getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			PageLoadWait: getDurationOrDefault("PAGE_LOAD_WAIT", 10*time.Second),
			PollInterval: getDurationOrDefault("PAGE_POLL_INTERVAL", 250*time.Millisecond),
		},
		Scraper: ScraperConfig{
			RateLimitMin: getDurationOrDefault("SCRAPER_RATE_LIMIT_MIN", 0),
			RateLimitMax: getDurationOrDefault("SCRAPER_RATE_LIMIT_MAX", 0),
			OfferMarker:  getEnvOrDefault("OFFER_MARKER_SELECTOR", "#olpOfferList"),
		},
		Schedule: ScheduleConfig{
			MinInterval: getDurationOrDefault("SCHEDULE_MIN_INTERVAL", 30*time.Minute),
			MaxInterval: getDurationOrDefault("SCHEDULE_MAX_INTERVAL", 60*time.Minute),
		},
		Status: StatusConfig{
			Addr: os.Getenv("STATUS_ADDR"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

// Validate checks the settings every command needs. Credentials are checked
// separately by ValidateCredentials since offline commands don't sign in.
func (c *Config) Validate() error {
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("BROWSER_TIMEOUT must be positive")
	}

	if c.Browser.PageLoadWait <= 0 {
		return fmt.Errorf("PAGE_LOAD_WAIT must be positive")
	}

	if c.Browser.PollInterval <= 0 {
		return fmt.Errorf("PAGE_POLL_INTERVAL must be positive")
	}

	if c.Scraper.RateLimitMin < 0 {
		return fmt.Errorf("SCRAPER_RATE_LIMIT_MIN cannot be negative")
	}

	if c.Scraper.RateLimitMin > c.Scraper.RateLimitMax {
		return fmt.Errorf("SCRAPER_RATE_LIMIT_MIN cannot be greater than SCRAPER_RATE_LIMIT_MAX")
	}

	if c.Scraper.OfferMarker == "" {
		return fmt.Errorf("OFFER_MARKER_SELECTOR cannot be empty")
	}

	if c.Schedule.MinInterval <= 0 {
		return fmt.Errorf("SCHEDULE_MIN_INTERVAL must be positive")
	}

	if c.Schedule.MinInterval > c.Schedule.MaxInterval {
		return fmt.Errorf("SCHEDULE_MIN_INTERVAL cannot be greater than SCHEDULE_MAX_INTERVAL")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format)
	}

	return nil
}

func (c *Config) ValidateCredentials() error {
	if c.Inventory.Email == "" || c.Inventory.Password == "" {
		return fmt.Errorf("ZEN_EMAIL and ZEN_PASSWORD are required")
	}
	return nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
