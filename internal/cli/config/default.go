package config

import (
	"os"
	"path/filepath"
	"time"
)

// EnvPrefix prefixes the environment variables Load reads.
const EnvPrefix = "REPLFRONT_"

// Default configuration values.
const (
	DefaultTheme          = "light"
	DefaultPasteThreshold = 16384
	DefaultPacingDelay    = time.Millisecond
	DefaultHighlightDelay = 500 * time.Millisecond

	DefaultSocketHost   = "localhost"
	DefaultIdleTimeout  = 0
	DefaultWriteTimeout = 10 * time.Second
	DefaultMaxLineBytes = 1 << 20

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		REPL: REPLSection{
			Theme:          DefaultTheme,
			PasteThreshold: DefaultPasteThreshold,
			PacingDelay:    DefaultPacingDelay,
			HighlightDelay: DefaultHighlightDelay,
		},
		Socket: SocketSection{
			Host:         DefaultSocketHost,
			IdleTimeout:  DefaultIdleTimeout,
			WriteTimeout: DefaultWriteTimeout,
			MaxLineBytes: DefaultMaxLineBytes,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".replfront", "config.yaml")
}
