// Package repl runs the local terminal REPL.
//
// The package contains:
//
//   - repl.go: the read loop feeding the local session's Accumulator
//   - editor.go: the LineEditor contract and the plain editor for dumb terminals
//   - readline.go: the rich editor built on chzyer/readline
//   - completer.go: tab completion for exit keywords and evaluator symbols
//   - history.go: the flat-file history store
package repl
