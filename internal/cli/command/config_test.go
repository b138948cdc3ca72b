package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// runApp runs the application with args and captures its output and exit
// status without terminating the test binary.
func runApp(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	code := 0

	app := App()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(_ *cli.Context, err error) {
		if ec, ok := err.(cli.ExitCoder); ok {
			code = ec.ExitCode()
			out.WriteString(ec.Error())
		}
	}

	if err := app.Run(append([]string{"replfront"}, args...)); err != nil && code == 0 {
		code = 1
	}
	return out.String(), code
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestConfigCommand(t *testing.T) {
	cmd := ConfigCommand()
	if cmd.Name != "config" {
		t.Errorf("Name = %q, want config", cmd.Name)
	}

	names := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		names[sub.Name] = true
	}
	for _, want := range []string{"show", "validate", "path"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}

func TestConfigShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeFile(t, "repl:\n  theme: dark\n")

	out, code := runApp(t, "-c", path, "-n", "5555", "config", "show")
	if code != 0 {
		t.Fatalf("exit code = %d, output %q", code, out)
	}
	for _, want := range []string{"theme: dark", "port: 5555", "host: localhost", "level: warn"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow_Invalid(t *testing.T) {
	path := writeFile(t, "repl:\n  theme: neon\n")

	out, code := runApp(t, "-c", path, "config", "show")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "RF-CONF-4000") {
		t.Errorf("output = %q, want a configuration error", out)
	}
}

func TestConfigValidate(t *testing.T) {
	good := writeFile(t, "socket:\n  port: 5555\n")
	bad := writeFile(t, "log:\n  level: loud\n")

	out, code := runApp(t, "config", "validate", good)
	if code != 0 || !strings.Contains(out, "configuration is valid: "+good) {
		t.Errorf("validate good = %d %q", code, out)
	}

	out, code = runApp(t, "config", "validate", bad)
	if code != 1 || !strings.Contains(out, "invalid configuration") {
		t.Errorf("validate bad = %d %q", code, out)
	}

	out, code = runApp(t, "config", "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	if code != 1 {
		t.Errorf("validate missing = %d %q, want exit 1", code, out)
	}
}

func TestConfigPath(t *testing.T) {
	out, code := runApp(t, "-c", "/etc/replfront.yaml", "config", "path")
	if code != 0 || strings.TrimSpace(out) != "/etc/replfront.yaml" {
		t.Errorf("config path = %d %q", code, out)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	out, _ = runApp(t, "config", "path")
	if want := filepath.Join(home, ".replfront", "config.yaml"); strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}
}
