// Package command provides the replfront command-line application.
//
// It uses urfave/cli/v2:
//
//   - root.go: App, global flags and flag-to-config overrides
//   - run.go: wiring of the local REPL, socket REPL, metrics endpoint,
//     config watcher and shutdown hooks
//   - config.go: the config subcommand group
//
// Running replfront without a subcommand starts the REPL.
package command
