// Package logger provides structured logging for the REPL front end.
//
// This package wraps log/slog:
//
//   - logger.go: configuration, the process-wide level and default logger
//   - context.go: session and connection ids carried by context.Context
//   - redact.go: source-text redaction
//
// Logs go to stderr or a file, never through the REPL output lock: a log
// line is operator diagnostics, not REPL output.
package logger
