package config

import (
	"fmt"

	"github.com/yndnr/replfront/internal/cli/theme"
	"github.com/yndnr/replfront/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyREPL(&cfg.REPL); err != nil {
		return err
	}
	if err := verifySocket(&cfg.Socket); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyREPL(cfg *REPLSection) error {
	if !theme.Valid(cfg.Theme) {
		return invalid("repl.theme %q is not one of %v", cfg.Theme, theme.Names())
	}
	if cfg.PasteThreshold < 0 {
		return invalid("repl.paste_threshold must not be negative")
	}
	if cfg.PacingDelay < 0 {
		return invalid("repl.pacing_delay must not be negative")
	}
	if cfg.HighlightDelay <= 0 {
		return invalid("repl.highlight_delay must be positive")
	}
	return nil
}

func verifySocket(cfg *SocketSection) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return invalid("socket.port %d is out of range", cfg.Port)
	}
	if cfg.Enabled() && cfg.Host == "" {
		return invalid("socket.host is required when socket.port is set")
	}
	if cfg.IdleTimeout < 0 || cfg.WriteTimeout < 0 {
		return invalid("socket timeouts must not be negative")
	}
	if cfg.RateLimit < 0 {
		return invalid("socket.rate_limit must not be negative")
	}
	if cfg.MaxLineBytes <= 0 {
		return invalid("socket.max_line_bytes must be positive")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return invalid("log.format %q is not one of text, json", cfg.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return domain.ErrConfigInvalid.WithDetails(fmt.Sprintf(format, args...))
}
