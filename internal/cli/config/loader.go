package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/yndnr/replfront/internal/infra/confloader"
)

// Load builds the configuration from defaults, the file at path, REPLFRONT_*
// environment variables and overrides, in increasing priority, and
// verifies the result.
//
// An empty path reads DefaultConfigPath and tolerates its absence; an
// explicit path must exist.
func Load(path string, overrides map[string]any) (*Config, error) {
	opts := []confloader.Option{
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithOverrides(overrides),
	}
	if path == "" {
		opts = append(opts, confloader.WithConfigFile(DefaultConfigPath()), confloader.WithOptionalFile())
	} else {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	cfg := Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseSocketAddr parses a --socket-repl value of the form "port" or
// "host:port". A bare port binds DefaultSocketHost.
func ParseSocketAddr(s string) (string, int, error) {
	host, portStr := DefaultSocketHost, s
	if strings.Contains(s, ":") {
		h, p, err := net.SplitHostPort(s)
		if err != nil {
			return "", 0, fmt.Errorf("invalid socket address %q: %w", s, err)
		}
		host, portStr = h, p
		if host == "" {
			host = DefaultSocketHost
		}
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid socket port %q", portStr)
	}
	return host, port, nil
}
