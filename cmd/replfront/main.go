// Package main provides the entry point for replfront.
//
// replfront is an interactive REPL front end: it accumulates terminal
// input into complete forms, hands them to an evaluator, and can serve
// the same REPL to other processes over a TCP socket.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/replfront/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
