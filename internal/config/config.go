package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProducerSample = "sample"
	ProducerRSS    = "rss"

	defaultPath     = "config.yaml"
	minSecretLength = 32
)

// Config holds all application configuration.
type Config struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	LogLevel     string `yaml:"log_level"`

	JWTSecret       string        `yaml:"jwt_secret"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`

	// AuthRatePerSecond and AuthBurst bound requests per client IP on the
	// auth endpoints.
	AuthRatePerSecond float64 `yaml:"auth_rate_per_second"`
	AuthBurst         int     `yaml:"auth_burst"`

	IngestInterval    time.Duration `yaml:"ingest_interval"`
	IngestProducer    string        `yaml:"ingest_producer"`
	IngestFeeds       []string      `yaml:"ingest_feeds"`
	IngestSampleCount int           `yaml:"ingest_sample_count"`

	AdminName     string `yaml:"admin_name"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		Port:              "8080",
		DatabasePath:      "edunews.db",
		LogLevel:          "info",
		BcryptCost:        12,
		AccessTokenTTL:    15 * time.Minute,
		RefreshTokenTTL:   7 * 24 * time.Hour,
		AuthRatePerSecond: 5.0 / 60.0,
		AuthBurst:         5,
		IngestInterval:    15 * time.Minute,
		IngestProducer:    ProducerSample,
		IngestSampleCount: 5,
		AdminName:         "Administrator",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, then validates it. An empty path falls back to
// EDUNEWS_CONFIG and then config.yaml; only an explicitly named file must
// exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		if envPath := os.Getenv("EDUNEWS_CONFIG"); envPath != "" {
			path, explicit = envPath, true
		} else {
			path = defaultPath
		}
	}

	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	setString("PORT", &c.Port)
	setString("DATABASE_PATH", &c.DatabasePath)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("JWT_SECRET", &c.JWTSecret)
	setString("INGEST_PRODUCER", &c.IngestProducer)
	setString("ADMIN_EMAIL", &c.AdminEmail)
	setString("ADMIN_PASSWORD", &c.AdminPassword)

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		c.BcryptCost = cost
	}
	if v := os.Getenv("INGEST_FEEDS"); v != "" {
		c.IngestFeeds = splitList(v)
	}

	for key, dst := range map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &c.AccessTokenTTL,
		"REFRESH_TOKEN_TTL": &c.RefreshTokenTTL,
		"INGEST_INTERVAL":   &c.IngestInterval,
	} {
		if err := setDuration(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that required fields are present and values are valid.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d characters", minSecretLength)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if c.IngestInterval <= 0 {
		return fmt.Errorf("ingest_interval must be positive")
	}
	if c.AuthRatePerSecond <= 0 || c.AuthBurst <= 0 {
		return fmt.Errorf("auth rate limit must be positive")
	}

	switch c.IngestProducer {
	case ProducerSample:
		if c.IngestSampleCount <= 0 {
			return fmt.Errorf("ingest_sample_count must be positive")
		}
	case ProducerRSS:
		if len(c.IngestFeeds) == 0 {
			return fmt.Errorf("ingest_feeds is required for the %s producer", ProducerRSS)
		}
	default:
		return fmt.Errorf("unknown ingest_producer %q", c.IngestProducer)
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
