package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var envKeys = []string{
	"EDUNEWS_CONFIG", "PORT", "DATABASE_PATH", "JWT_SECRET", "BCRYPT_COST",
	"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "INGEST_INTERVAL",
	"INGEST_PRODUCER", "INGEST_FEEDS", "ADMIN_EMAIL", "ADMIN_PASSWORD", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DatabasePath != "edunews.db" {
		t.Fatalf("unexpected defaults: port %q db %q", cfg.Port, cfg.DatabasePath)
	}
	if cfg.AccessTokenTTL != 15*time.Minute || cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected ttls: %v %v", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	if cfg.IngestInterval != 15*time.Minute {
		t.Fatalf("expected 15m ingest interval, got %v", cfg.IngestInterval)
	}
	if cfg.IngestProducer != ProducerSample {
		t.Fatalf("expected sample producer, got %q", cfg.IngestProducer)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: "9090"
jwt_secret: "`+testSecret+`"
bcrypt_cost: 10
access_token_ttl: 5m
ingest_interval: 30m
ingest_producer: rss
ingest_feeds:
  - https://a.example/feed.xml
  - https://b.example/rss
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.BcryptCost != 10 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 5*time.Minute || cfg.IngestInterval != 30*time.Minute {
		t.Fatalf("durations not parsed: %v %v", cfg.AccessTokenTTL, cfg.IngestInterval)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected default refresh ttl kept, got %v", cfg.RefreshTokenTTL)
	}
	if len(cfg.IngestFeeds) != 2 {
		t.Fatalf("expected 2 feeds, got %v", cfg.IngestFeeds)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: \"9090\"\njwt_secret: \""+testSecret+"\"\n")
	t.Setenv("EDUNEWS_CONFIG", path)
	t.Setenv("PORT", "7070")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("INGEST_INTERVAL", "90s")
	t.Setenv("INGEST_PRODUCER", "rss")
	t.Setenv("INGEST_FEEDS", " https://a.example/feed , ,https://b.example/feed")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" || cfg.BcryptCost != 4 || cfg.IngestInterval != 90*time.Second {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	want := []string{"https://a.example/feed", "https://b.example/feed"}
	if !slices.Equal(cfg.IngestFeeds, want) {
		t.Fatalf("expected feeds %v, got %v", want, cfg.IngestFeeds)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: [unclosed")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", testSecret)

	for _, tc := range []struct{ key, value string }{
		{"BCRYPT_COST", "twelve"},
		{"ACCESS_TOKEN_TTL", "soon"},
	} {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("expected error naming %s, got %v", tc.key, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Defaults()
		cfg.JWTSecret = testSecret
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"bcrypt too low", func(c *Config) { c.BcryptCost = 3 }},
		{"bcrypt too high", func(c *Config) { c.BcryptCost = 15 }},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }},
		{"negative refresh ttl", func(c *Config) { c.RefreshTokenTTL = -time.Hour }},
		{"zero interval", func(c *Config) { c.IngestInterval = 0 }},
		{"unknown producer", func(c *Config) { c.IngestProducer = "kafka" }},
		{"rss without feeds", func(c *Config) { c.IngestProducer = ProducerRSS }},
		{"admin email only", func(c *Config) { c.AdminEmail = "admin@local" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("expected defaults plus secret to be valid: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
