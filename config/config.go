package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server's runtime configuration.
type Config struct {
	Listen        string        `yaml:"listen"`
	MetricsListen string        `yaml:"metrics_listen"`
	LogLevel      string        `yaml:"log_level"`
	DatabaseURL   string `yaml:"database_url"`
	// MatchIntervalMs > 0 runs a matching pass on a timer in addition to
	// the /matching/run endpoint.
	MatchIntervalMs int `yaml:"match_interval_ms"`
	CommandBuffer   int `yaml:"command_buffer"`
}

// MatchInterval returns the periodic matching interval, zero when disabled.
func (c Config) MatchInterval() time.Duration {
	return time.Duration(c.MatchIntervalMs) * time.Millisecond
}

func Default() Config {
	return Config{
		Listen:        ":8080",
		MetricsListen: ":9100",
		LogLevel:      "info",
		CommandBuffer: 1024,
	}
}

// Load reads YAML config from path and applies defaults and validation.
// DATABASE_URL in the environment overrides the file.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.CommandBuffer <= 0 {
		return errors.New("command_buffer must be positive")
	}
	if c.MatchIntervalMs < 0 {
		return errors.New("match_interval_ms must not be negative")
	}
	return nil
}
