package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultHost = "0.0.0.0"

// Config is the launcher configuration, resolved from flags, environment and
// an optional YAML file in that order of precedence.
type Config struct {
	Host            string
	Port            int
	APIKey          string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	SearchURL       string
	SearchAPIKey    string

	// InvalidHost holds the rejected HOST value when Host fell back to the default.
	InvalidHost string
}

var envBindings = map[string]string{
	"host":             "HOST",
	"port":             "PORT",
	"api_key":          "MCP_API_KEY",
	"log_level":        "LOG_LEVEL",
	"log_format":       "LOG_FORMAT",
	"shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"search_url":       "SEARCH_URL",
	"search_api_key":   "SEARCH_API_KEY",
}

// bindConfig declares the launcher flags on cmd and returns a viper instance
// bound to them and to their environment variables.
func bindConfig(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	flags := cmd.Flags()

	flags.String("config", "", "YAML config file")
	flags.String("host", defaultHost, "bind host")
	flags.String("port", "8001", "bind port")
	flags.String("api-key", "", "shared bearer secret (empty enables development mode)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, console)")
	flags.Duration("shutdown-timeout", 10*time.Second, "grace period for in-flight requests on shutdown")
	flags.String("search-url", "", "remote JSON search endpoint for rag-search (empty uses the built-in index)")
	flags.String("search-api-key", "", "bearer key for the remote search endpoint")

	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("host", flags.Lookup("host"))
	_ = v.BindPFlag("port", flags.Lookup("port"))
	_ = v.BindPFlag("api_key", flags.Lookup("api-key"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = v.BindPFlag("shutdown_timeout", flags.Lookup("shutdown-timeout"))
	_ = v.BindPFlag("search_url", flags.Lookup("search-url"))
	_ = v.BindPFlag("search_api_key", flags.Lookup("search-api-key"))

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

// loadConfig resolves the configuration. An unusable host falls back to
// 0.0.0.0 and is reported through InvalidHost; an unusable port is an error.
func loadConfig(v *viper.Viper) (*Config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	port, err := parsePort(v.GetString("port"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            port,
		APIKey:          v.GetString("api_key"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		SearchURL:       v.GetString("search_url"),
		SearchAPIKey:    v.GetString("search_api_key"),
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("invalid shutdown timeout %q", v.GetString("shutdown_timeout"))
	}

	rawHost := v.GetString("host")
	if host, ok := resolveHost(rawHost); ok {
		cfg.Host = host
	} else {
		cfg.Host = defaultHost
		cfg.InvalidHost = rawHost
	}
	return cfg, nil
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", raw, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return port, nil
}

// resolveHost accepts an IP literal or a DNS host name.
func resolveHost(raw string) (string, bool) {
	host := strings.TrimSpace(raw)
	if host == "" {
		return "", false
	}
	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		return ip.String(), true
	}
	if len(host) > 253 {
		return "", false
	}
	labels := strings.Split(host, ".")
	for _, label := range labels {
		if !validLabel(label) {
			return "", false
		}
	}
	// A numeric last label is a malformed IP address, not a name.
	if strings.Trim(labels[len(labels)-1], "0123456789") == "" {
		return "", false
	}
	return host, true
}

func validLabel(label string) bool {
	if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, c := range label {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
