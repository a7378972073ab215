package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/gamify.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Seed:       0,
		Similarity: 150,
		LogLevel:   "info",
		Storage: StorageConfig{
			Path: "~/.gamify/gamify.db",
		},
		SSH: SSHConfig{
			Addr:        ":2222",
			HostKeyPath: ".ssh/gamify_ed25519",
			IdleTimeout: 10 * time.Minute,
			MaxTimeout:  time.Hour,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Play: PlayConfig{
			ShowHelp:    true,
			RecordPlays: true,
			MaxHistory:  20,
		},
	}
}
