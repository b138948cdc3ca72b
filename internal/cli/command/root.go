package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/replfront/internal/cli/config"
	"github.com/yndnr/replfront/internal/cli/repl"
	"github.com/yndnr/replfront/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:            buildinfo.Product,
		Usage:           "interactive REPL front end with an optional socket REPL",
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		Commands:        []*cli.Command{ConfigCommand(), ConnectCommand()},
		Action:          runAction,
		HideHelpCommand: true,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "configuration file (default ~/.replfront/config.yaml)",
			EnvVars: []string{"REPLFRONT_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "dumb-terminal",
			Aliases: []string{"d"},
			Usage:   "disable line editing, colours and history",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "suppress the socket REPL banner",
		},
		&cli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "colour theme: light, dark or dumb",
		},
		&cli.StringFlag{
			Name:    "socket-repl",
			Aliases: []string{"n"},
			Usage:   "serve a socket REPL on [host:]port",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "serve /metrics and /healthz on this address",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, warn or error",
		},
	}
}

// GlobalFlags holds the parsed global flags.
type GlobalFlags struct {
	ConfigFile string

	DumbTerminal bool
	Quiet        bool
	Theme        string
	SocketREPL   string
	MetricsAddr  string
	LogLevel     string

	// set records which flags were given explicitly.
	set map[string]bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	f := &GlobalFlags{
		ConfigFile:   c.String("config"),
		DumbTerminal: c.Bool("dumb-terminal"),
		Quiet:        c.Bool("quiet"),
		Theme:        c.String("theme"),
		SocketREPL:   c.String("socket-repl"),
		MetricsAddr:  c.String("metrics-addr"),
		LogLevel:     c.String("log-level"),
		set:          make(map[string]bool),
	}
	for _, name := range []string{"dumb-terminal", "quiet", "theme", "socket-repl", "metrics-addr", "log-level"} {
		f.set[name] = c.IsSet(name)
	}
	return f
}

// Overrides converts explicitly given flags into configuration overrides.
// Flags left at their zero value do not mask the file or environment.
func (f *GlobalFlags) Overrides() (map[string]any, error) {
	o := make(map[string]any)
	if f.set["dumb-terminal"] {
		o["repl.dumb_terminal"] = f.DumbTerminal
	}
	if f.set["quiet"] {
		o["repl.quiet"] = f.Quiet
	}
	if f.set["theme"] {
		o["repl.theme"] = f.Theme
	}
	if f.set["socket-repl"] {
		host, port, err := config.ParseSocketAddr(f.SocketREPL)
		if err != nil {
			return nil, err
		}
		o["socket.host"] = host
		o["socket.port"] = port
	}
	if f.set["metrics-addr"] {
		o["metrics.addr"] = f.MetricsAddr
	}
	if f.set["log-level"] {
		o["log.level"] = f.LogLevel
	}
	return o, nil
}

// loadConfig loads the configuration the global flags select.
func loadConfig(c *cli.Context) (*config.Config, *GlobalFlags, map[string]any, error) {
	flags := ParseGlobalFlags(c)
	overrides, err := flags.Overrides()
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := config.Load(flags.ConfigFile, overrides)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, flags, overrides, nil
}

func runAction(c *cli.Context) error {
	cfg, flags, overrides, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	configPath := flags.ConfigFile
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	code, err := Run(c.Context, Options{
		Config:      cfg,
		ConfigPath:  configPath,
		Overrides:   overrides,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: repl.IsTerminal(),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	if code != 0 {
		return cli.Exit("", code)
	}
	return nil
}
