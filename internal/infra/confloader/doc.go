// Package confloader loads layered configuration for replfront.
//
// Sources are merged with koanf in increasing priority:
//
//  1. Default values (the target struct as passed in)
//  2. YAML configuration file
//  3. REPLFRONT_* environment variables
//  4. Command-line flags (LoadMap)
//
// Watcher reports writes to the configuration file so selected settings
// can be reapplied while the REPL is running.
package confloader
