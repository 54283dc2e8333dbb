package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	API     APIConfig
	Notify  NotifyConfig
	UI      UIConfig
	State   StateConfig
	Export  ExportConfig
	LogFile string
}

// APIConfig holds backend connectivity options.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NotifyConfig holds notification feed options.
type NotifyConfig struct {
	PollInterval time.Duration
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	PageSize int
}

// StateConfig locates the client-side state file (session token, cached
// profile, theme flag).
type StateConfig struct {
	Dir string
}

// ExportConfig locates where report files land.
type ExportConfig struct {
	Dir string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := getenvDuration("FARMDESK_HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	poll, err := getenvDuration("FARMDESK_POLL_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, err
	}
	pageSize, err := getenvInt("FARMDESK_PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getenvWithDefault("FARMDESK_API_URL", "http://localhost:8080"),
			Timeout: timeout,
		},
		Notify: NotifyConfig{
			PollInterval: poll,
		},
		UI: UIConfig{
			PageSize: pageSize,
		},
		State: StateConfig{
			Dir: os.Getenv("FARMDESK_STATE_DIR"),
		},
		Export: ExportConfig{
			Dir: getenvWithDefault("FARMDESK_EXPORT_DIR", "."),
		},
		LogFile: os.Getenv("FARMDESK_LOG_FILE"),
	}

	if cfg.State.Dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.State.Dir = filepath.Join(base, "farmdesk")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.State.Dir, "farmdesk.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and sane.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.API.BaseURL == "" {
		return errors.New("FARMDESK_API_URL must be provided")
	}
	if c.API.Timeout <= 0 {
		return errors.New("FARMDESK_HTTP_TIMEOUT must be positive")
	}
	if c.Notify.PollInterval <= 0 {
		return errors.New("FARMDESK_POLL_INTERVAL must be positive")
	}
	if c.UI.PageSize <= 0 {
		return errors.New("FARMDESK_PAGE_SIZE must be positive")
	}
	if c.State.Dir == "" {
		return errors.New("FARMDESK_STATE_DIR must be provided")
	}
	if c.Export.Dir == "" {
		return errors.New("FARMDESK_EXPORT_DIR must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
