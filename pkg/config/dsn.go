package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseDatabaseURL expands a postgres:// connection URL into database
// config fields. Hosting platforms hand out a single DATABASE_URL; the
// rest of the config keeps working in host/port terms.
func ParseDatabaseURL(rawURL string) (*DatabaseConfig, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	rawURL = strings.Replace(rawURL, "postgresql://", "postgres://", 1)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if u.Scheme != "postgres" {
		return nil, fmt.Errorf("unsupported database URL scheme %q", u.Scheme)
	}

	cfg := &DatabaseConfig{
		Host:     u.Hostname(),
		Port:     5432,
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  "disable",
	}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port in database URL: %w", err)
		}
		cfg.Port = port
	}

	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}

	if mode := u.Query().Get("sslmode"); mode != "" {
		cfg.SSLMode = mode
	}

	return cfg, nil
}
