package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the console engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (the session
// secret) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Session configuration
	Session SessionConfig `yaml:"session"`

	// Default UI preferences applied at startup
	Defaults DefaultsConfig `yaml:"defaults"`

	// Simulated maintenance actions
	Backup BackupConfig `yaml:"backup"`
}

// SessionConfig holds the login session cookie settings.
type SessionConfig struct {
	// Secret signs the session cookie. Secret - not in YAML.
	// The demo fallback keeps local startup working without any environment.
	Secret string `yaml:"-" env:"SESSION_SECRET" env-default:"geonexus-demo-session-secret"`

	// TTLMinutes is how long a login session stays valid.
	TTLMinutes int `yaml:"ttl_minutes" env:"SESSION_TTL_MINUTES" env-default:"480"`

	// CookieName is the session cookie's name.
	CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"geonexus_session"`
}

// DefaultsConfig holds the preference values the store is seeded with.
type DefaultsConfig struct {
	Language string `yaml:"language" env:"DEFAULT_LANGUAGE" env-default:"en"`
	Theme    string `yaml:"theme" env:"DEFAULT_THEME" env-default:"light"`
}

// BackupConfig tunes the simulated backup action. The delay exists purely for
// UI feedback; no real work happens behind it.
type BackupConfig struct {
	DurationSeconds int `yaml:"duration_seconds" env:"BACKUP_DURATION_SECONDS" env-default:"3"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is not an error: everything has an env
// default, so the engine can start from environment alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	err := cleanenv.ReadConfig("config.yaml", cfg)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// BackupDuration returns the simulated backup delay as a duration.
func (c *Config) BackupDuration() time.Duration {
	return time.Duration(c.Backup.DurationSeconds) * time.Second
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret must not be empty")
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session ttl must be positive, got %d", c.Session.TTLMinutes)
	}
	if c.Backup.DurationSeconds < 0 {
		return fmt.Errorf("backup duration must not be negative, got %d", c.Backup.DurationSeconds)
	}
	switch c.Defaults.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("unknown default theme %q", c.Defaults.Theme)
	}
	return nil
}
