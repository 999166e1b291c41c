// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

// Package config loads and validates process-wide configuration.
//
// Configuration is assembled from defaults, an optional YAML file, and CLI
// flags, in that order. Secrets (DATABASE_URL, TOKEN_SECRET) come from the
// environment only and never appear in the file or flags. The resulting
// Config is immutable for the process lifetime.
package config

import (
	"os"
	"time"

	"github.com/gobwas/glob"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultAddr        = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultTokenTTLms  = 86400000 // 24 hours
)

// Config is the full process configuration. Every file key is optional;
// unset keys keep their defaults.
type Config struct {
	Server   ServerConfig   `koanf:"server" json:"server,omitempty"`
	Database DatabaseConfig `koanf:"database" json:"-"`
	Auth     AuthConfig     `koanf:"auth" json:"auth,omitempty"`
}

// ServerConfig configures the HTTP API and observability servers.
type ServerConfig struct {
	// Addr is the API listen address in "host:port" format.
	Addr string `koanf:"addr" json:"addr,omitempty"`
	// MetricsAddr is the metrics/health listen address. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr" json:"metrics_addr,omitempty"`
	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format" json:"log_format,omitempty" jsonschema:"enum=json,enum=text"`
	// AllowedOrigins are glob patterns for CORS origin matching,
	// e.g. "https://*.example.com". Empty means same-origin only.
	AllowedOrigins []string `koanf:"allowed_origins" json:"allowed_origins,omitempty"`
}

// DatabaseConfig configures PostgreSQL connectivity.
// URL is populated from the DATABASE_URL environment variable.
type DatabaseConfig struct {
	URL string `koanf:"-" json:"-"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	// TokenSecret is the HMAC signing secret, from the TOKEN_SECRET
	// environment variable. Never read from the config file.
	TokenSecret string `koanf:"-" json:"-"`
	// TokenTTLMillis is the session token lifetime in milliseconds.
	TokenTTLMillis int64 `koanf:"token_ttl_ms" json:"token_ttl_ms,omitempty" jsonschema:"minimum=1"`
}

// TokenTTL returns the token lifetime as a duration.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMillis) * time.Millisecond
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			MetricsAddr: DefaultMetricsAddr,
			LogFormat:   DefaultLogFormat,
		},
		Auth: AuthConfig{
			TokenTTLMillis: DefaultTokenTTLms,
		},
	}
}

// Load assembles the configuration from defaults, an optional YAML file,
// CLI flags, and environment secrets. The file is validated against the
// generated JSON Schema before loading.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied
		if err != nil {
			return Config{}, oops.Code("CONFIG_READ_FAILED").
				With("path", path).
				Wrap(err)
		}
		if err := ValidateFile(data); err != nil {
			return Config{}, oops.Code("CONFIG_INVALID").
				With("path", path).
				Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return flagKey(key), value
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "unmarshal").
			Wrap(err)
	}

	// Secrets come from the environment only.
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.Auth.TokenSecret = os.Getenv("TOKEN_SECRET")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// flagKey maps CLI flag names to config keys.
func flagKey(name string) string {
	switch name {
	case "addr":
		return "server.addr"
	case "metrics-addr":
		return "server.metrics_addr"
	case "log-format":
		return "server.log_format"
	case "token-ttl-ms":
		return "auth.token_ttl_ms"
	default:
		return name
	}
}

// Validate checks invariants that the schema cannot express.
// It does not require secrets to be set; serve enforces those because the
// migrate command needs only the database URL.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Server.LogFormat != "json" && c.Server.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("server.log_format must be 'json' or 'text', got %q", c.Server.LogFormat)
	}
	if c.Auth.TokenTTLMillis <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.token_ttl_ms must be positive")
	}
	for _, pattern := range c.Server.AllowedOrigins {
		if _, err := glob.Compile(pattern); err != nil {
			return oops.Code("CONFIG_INVALID").
				With("pattern", pattern).
				Wrap(err)
		}
	}
	return nil
}
