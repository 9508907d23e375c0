package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Ping modes
const (
	PingModeExec = "exec"
	PingModeICMP = "icmp"
)

// Config holds all configuration for the network quality logger
type Config struct {
	Targets           []string      `yaml:"targets"`
	Interval          time.Duration `yaml:"interval"`
	PingTimeout       time.Duration `yaml:"ping_timeout"`
	PingMode          string        `yaml:"ping_mode"`
	ICMPPrivileged    bool          `yaml:"icmp_privileged"`
	SpeedtestEvery    int           `yaml:"speedtest_every"`
	SpeedtestBinary   string        `yaml:"speedtest_binary"`
	SpeedtestServerID string        `yaml:"speedtest_server_id"`
	SpeedtestTimeout  time.Duration `yaml:"speedtest_timeout"`
	LogDir            string        `yaml:"log_dir"`
	DatabasePath      string        `yaml:"database_path"`
	RetentionDays     int           `yaml:"retention_days"`
	LogLevel          string        `yaml:"log_level"`
}

// Default returns the built-in configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Targets:          []string{"1.1.1.1", "8.8.8.8", "95.216.19.251"},
		Interval:         time.Second,
		PingTimeout:      60 * time.Second,
		PingMode:         PingModeExec,
		SpeedtestEvery:   600,
		SpeedtestBinary:  "speedtest",
		SpeedtestTimeout: 2 * time.Minute,
		RetentionDays:    90,
		LogLevel:         "info",
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target must be specified")
	}
	for _, t := range c.Targets {
		if t == "" {
			return fmt.Errorf("targets cannot contain empty entries")
		}
	}
	if c.Interval < time.Second {
		return fmt.Errorf("interval must be at least 1s")
	}
	if c.PingTimeout <= 0 {
		return fmt.Errorf("ping timeout must be positive")
	}
	if c.PingMode != PingModeExec && c.PingMode != PingModeICMP {
		return fmt.Errorf("ping mode must be %q or %q, got %q", PingModeExec, PingModeICMP, c.PingMode)
	}
	if c.SpeedtestEvery < 1 {
		return fmt.Errorf("speedtest_every must be at least 1")
	}
	if c.SpeedtestBinary == "" {
		return fmt.Errorf("speedtest binary cannot be empty")
	}
	if c.SpeedtestTimeout <= 0 {
		return fmt.Errorf("speedtest timeout must be positive")
	}
	if c.DatabasePath != "" && c.RetentionDays < 1 {
		return fmt.Errorf("retention days must be at least 1 when a database is configured")
	}
	return nil
}
