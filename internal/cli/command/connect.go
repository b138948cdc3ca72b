package command

import (
	"fmt"
	"net"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/replfront/internal/cli/config"
	"github.com/yndnr/replfront/internal/cli/connection"
)

// ConnectCommand returns the connect command, a minimal client for a
// running socket REPL.
func ConnectCommand() *cli.Command {
	return &cli.Command{
		Name:      "connect",
		Usage:     "Attach to a socket REPL",
		ArgsUsage: "[host:]port",
		Action:    runConnect,
	}
}

func runConnect(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: replfront connect [host:]port", 1)
	}
	host, port, err := config.ParseSocketAddr(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	client := connection.NewSocketClient(net.JoinHostPort(host, strconv.Itoa(port)))
	if err := client.Connect(c.Context); err != nil {
		return cli.Exit(fmt.Sprintf("error: connect: %v", err), 1)
	}
	defer client.Close()

	if err := client.Attach(c.Context, c.App.Reader, c.App.Writer); err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return nil
}
