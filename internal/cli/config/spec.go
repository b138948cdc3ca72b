package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration for replfront.
type Config struct {
	REPL    REPLSection    `koanf:"repl"`
	Socket  SocketSection  `koanf:"socket"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// REPLSection configures the local terminal loop.
type REPLSection struct {
	// DumbTerminal disables the rich line editor, colours and history.
	DumbTerminal bool `koanf:"dumb_terminal"`

	// Quiet suppresses the socket REPL banner.
	Quiet bool `koanf:"quiet"`

	// Theme names the colour theme for the local session.
	Theme string `koanf:"theme"`

	// HistoryFile is where submitted input is persisted.
	// Empty selects ~/.replfront_history.
	HistoryFile string `koanf:"history_file"`

	// PasteThreshold is the input size at or above which a read is fed
	// whole instead of line by line.
	PasteThreshold int `koanf:"paste_threshold"`

	// PacingDelay is slept before every read. Zero disables it.
	PacingDelay time.Duration `koanf:"pacing_delay"`

	// HighlightDelay is how long a matching-bracket highlight stays up.
	HighlightDelay time.Duration `koanf:"highlight_delay"`
}

// SocketSection configures the socket REPL server.
type SocketSection struct {
	// Host is the bind host.
	Host string `koanf:"host"`

	// Port is the bind port. Zero disables the socket REPL.
	Port int `koanf:"port"`

	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit caps input lines per second per connection. Zero is unlimited.
	RateLimit int `koanf:"rate_limit"`

	MaxLineBytes int `koanf:"max_line_bytes"`
}

// Enabled reports whether the socket REPL should be started.
func (s SocketSection) Enabled() bool {
	return s.Port != 0
}

// Address returns the host:port listen address.
func (s SocketSection) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// MetricsSection configures the observability endpoint.
type MetricsSection struct {
	// Addr is the listen address of /metrics and /healthz. Empty disables it.
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// File receives log output instead of stderr when set.
	File string `koanf:"file"`
}

// Map returns the configuration keyed by dotted path, the same keys the
// file, environment and overrides use. Durations are rendered as strings.
func (c *Config) Map() map[string]any {
	return map[string]any{
		"repl.dumb_terminal":    c.REPL.DumbTerminal,
		"repl.quiet":            c.REPL.Quiet,
		"repl.theme":            c.REPL.Theme,
		"repl.history_file":     c.REPL.HistoryFile,
		"repl.paste_threshold":  c.REPL.PasteThreshold,
		"repl.pacing_delay":     c.REPL.PacingDelay.String(),
		"repl.highlight_delay":  c.REPL.HighlightDelay.String(),
		"socket.host":           c.Socket.Host,
		"socket.port":           c.Socket.Port,
		"socket.idle_timeout":   c.Socket.IdleTimeout.String(),
		"socket.write_timeout":  c.Socket.WriteTimeout.String(),
		"socket.rate_limit":     c.Socket.RateLimit,
		"socket.max_line_bytes": c.Socket.MaxLineBytes,
		"metrics.addr":          c.Metrics.Addr,
		"log.level":             c.Log.Level,
		"log.format":            c.Log.Format,
		"log.file":              c.Log.File,
	}
}
