package command

import (
	"fmt"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/replfront/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration as YAML",
				Action: configShow,
			},
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "[FILE]",
				Action:    configValidate,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPath,
			},
		},
	}
}

// configShow prints the configuration after merging file, environment and flags.
func configShow(c *cli.Context) error {
	cfg, _, _, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	out, err := yaml.Parser().Marshal(maps.Unflatten(cfg.Map(), "."))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = c.App.Writer.Write(out)
	return err
}

func configValidate(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = ParseGlobalFlags(c).ConfigFile
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := config.Load(path, nil); err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration %s: %v", path, err), 1)
	}
	fmt.Fprintf(c.App.Writer, "configuration is valid: %s\n", path)
	return nil
}

func configPath(c *cli.Context) error {
	path := ParseGlobalFlags(c).ConfigFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}
