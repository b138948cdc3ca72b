package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	REPL struct {
		Theme        string        `koanf:"theme"`
		Quiet        bool          `koanf:"quiet"`
		HistoryFile  string        `koanf:"history_file"`
		PacingDelay  time.Duration `koanf:"pacing_delay"`
		DumbTerminal bool          `koanf:"dumb_terminal"`
	} `koanf:"repl"`
	Socket struct {
		Host string `koanf:"host"`
		Port int    `koanf:"port"`
	} `koanf:"socket"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
		WithOptionalFile(),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
	if !l.optionalFile {
		t.Error("optionalFile should be set")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
repl:
  theme: dark
  quiet: true
socket:
  host: 0.0.0.0
  port: 5555
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.REPL.Theme != "dark" {
		t.Errorf("repl.theme = %q, want %q", cfg.REPL.Theme, "dark")
	}
	if !cfg.REPL.Quiet {
		t.Error("repl.quiet should be true")
	}
	if cfg.Socket.Port != 5555 {
		t.Errorf("socket.port = %d, want 5555", cfg.Socket.Port)
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Optional(t *testing.T) {
	l := NewLoader(WithOptionalFile())
	if err := l.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Errorf("LoadFile() on optional missing file error = %v", err)
	}

	var cfg testConfig
	cfg.REPL.Theme = "light"
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.REPL.Theme != "light" {
		t.Errorf("Theme = %q, want the default to survive", cfg.REPL.Theme)
	}
}

func TestLoader_LoadFile_Malformed(t *testing.T) {
	path := writeConfig(t, "repl: [unclosed\n")

	l := NewLoader(WithOptionalFile())
	if err := l.LoadFile(path); err == nil {
		t.Error("LoadFile() should fail on malformed YAML")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("REPLFRONT_REPL_HISTORY_FILE", "/tmp/hist")
	t.Setenv("REPLFRONT_SOCKET_PORT", "7000")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.REPL.HistoryFile != "/tmp/hist" {
		t.Errorf("repl.history_file = %q, want %q", cfg.REPL.HistoryFile, "/tmp/hist")
	}
	if cfg.Socket.Port != 7000 {
		t.Errorf("socket.port = %d, want 7000", cfg.Socket.Port)
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYREPL_SOCKET_PORT", "9090")
	t.Setenv("REPLFRONT_SOCKET_PORT", "1")

	l := NewLoader(WithEnvPrefix("MYREPL_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Socket.Port != 9090 {
		t.Errorf("socket.port = %d, want 9090", cfg.Socket.Port)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"REPLFRONT_REPL_THEME", "repl.theme"},
		{"REPLFRONT_REPL_DUMB_TERMINAL", "repl.dumb_terminal"},
		{"REPLFRONT_SOCKET_MAX_LINE_BYTES", "socket.max_line_bytes"},
		{"REPLFRONT_DEBUG", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envKey(DefaultEnvPrefix, tt.name); got != tt.want {
				t.Errorf("envKey(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"socket.host": "127.0.0.1",
		"repl.quiet":  true,
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	var cfg testConfig
	cfg.Socket.Port = 5555
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Socket.Host != "127.0.0.1" {
		t.Errorf("socket.host = %q, want %q", cfg.Socket.Host, "127.0.0.1")
	}
	if !cfg.REPL.Quiet {
		t.Error("repl.quiet should be true")
	}
	if cfg.Socket.Port != 5555 {
		t.Errorf("socket.port = %d, want the unset key to keep 5555", cfg.Socket.Port)
	}
}

func TestLoader_LoadMap_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(nil); err != nil {
		t.Errorf("LoadMap(nil) error = %v", err)
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
repl:
  theme: light
socket:
  host: from-file
  port: 1000
`)

	t.Setenv("REPLFRONT_SOCKET_HOST", "from-env")
	t.Setenv("REPLFRONT_SOCKET_PORT", "2000")

	l := NewLoader(
		WithConfigFile(path),
		WithOverrides(map[string]any{"socket.port": 3000}),
	)

	var cfg testConfig
	cfg.REPL.Quiet = true
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Socket.Host != "from-env" {
		t.Errorf("Host = %q, want %q (env should override file)", cfg.Socket.Host, "from-env")
	}
	if cfg.Socket.Port != 3000 {
		t.Errorf("Port = %d, want 3000 (overrides should win over env)", cfg.Socket.Port)
	}
	if cfg.REPL.Theme != "light" {
		t.Errorf("Theme = %q, want %q", cfg.REPL.Theme, "light")
	}
	if !cfg.REPL.Quiet {
		t.Error("Quiet should keep its default when no source sets it")
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	path := writeConfig(t, `
repl:
  theme: dark
  dumb_terminal: true
  pacing_delay: 5ms
  history_file: /var/tmp/h
socket:
  port: 5555
`)

	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.REPL.Theme != "dark" {
		t.Errorf("Theme = %q, want %q", cfg.REPL.Theme, "dark")
	}
	if !cfg.REPL.DumbTerminal {
		t.Error("DumbTerminal should be true")
	}
	if cfg.REPL.PacingDelay != 5*time.Millisecond {
		t.Errorf("PacingDelay = %v, want 5ms", cfg.REPL.PacingDelay)
	}
	if cfg.REPL.HistoryFile != "/var/tmp/h" {
		t.Errorf("HistoryFile = %q, want %q", cfg.REPL.HistoryFile, "/var/tmp/h")
	}
	if cfg.Socket.Port != 5555 {
		t.Errorf("Port = %d, want 5555", cfg.Socket.Port)
	}
}
