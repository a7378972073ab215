// Package config provides YAML-based configuration loading for the gamify
// CLI and servers, with environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config contains every setting the CLI reads at startup.
type Config struct {
	Seed       int64  `yaml:"seed" env:"GAMIFY_SEED"`             // 0 means seed from the clock
	Similarity int    `yaml:"similarity" env:"GAMIFY_SIMILARITY"` // Onboarding color threshold
	LogLevel   string `yaml:"log_level" env:"GAMIFY_LOG_LEVEL"`

	Storage StorageConfig `yaml:"storage"`
	Designs DesignsConfig `yaml:"designs"`
	SSH     SSHConfig     `yaml:"ssh"`
	HTTP    HTTPConfig    `yaml:"http"`
	Play    PlayConfig    `yaml:"play"`
}

// StorageConfig locates the sqlite library.
type StorageConfig struct {
	Path string `yaml:"path" env:"GAMIFY_DB"` // "~" expands to the home directory
}

// DesignsConfig locates design files outside the built-in set.
type DesignsConfig struct {
	Dir string `yaml:"dir" env:"GAMIFY_DESIGNS_DIR"`
}

// SSHConfig defines the SSH play server.
type SSHConfig struct {
	Addr        string        `yaml:"addr" env:"GAMIFY_SSH_ADDR"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxTimeout  time.Duration `yaml:"max_timeout"`
}

// HTTPConfig defines the JSON API server.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"GAMIFY_HTTP_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PlayConfig defines terminal play options.
type PlayConfig struct {
	ShowHelp    bool `yaml:"show_help"`
	RecordPlays bool `yaml:"record_plays"` // Save a play record on quit
	MaxHistory  int  `yaml:"max_history"`  // Rows shown by the history command
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Validate checks values the YAML decoder cannot.
func (c Config) Validate() error {
	if c.Similarity < 0 {
		return fmt.Errorf("similarity must be >= 0, got %d", c.Similarity)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if c.Play.MaxHistory < 0 {
		return fmt.Errorf("play.max_history must be >= 0, got %d", c.Play.MaxHistory)
	}
	return nil
}
