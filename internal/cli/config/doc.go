// Package config defines the replfront configuration.
//
// This package is organized as:
//
//   - spec.go: Config struct and its sections
//   - default.go: default values
//   - verify.go: validation
//   - loader.go: loading from file, environment and flags
//
// The file lives at ~/.replfront/config.yaml unless --config names another
// one. Environment variables use the REPLFRONT_ prefix, for example
// REPLFRONT_REPL_THEME=dark or REPLFRONT_SOCKET_PORT=5555.
package config
