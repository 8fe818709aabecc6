// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

// Package config loads credgate configuration from a YAML file and
// command-line flags.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/credgate/credgate/internal/auth"
	"github.com/credgate/credgate/internal/logging"
	"github.com/credgate/credgate/internal/store"
)

// Token kinds.
const (
	TokenKindOpaque = "opaque"
	TokenKindJWT    = "jwt"
)

// Token stores.
const (
	TokenStorePostgres = "postgres"
	TokenStoreRedis    = "redis"
)

// DatabaseURLEnv is consulted when database_url is not configured.
const DatabaseURLEnv = "DATABASE_URL"

// Config is the full credgate configuration.
type Config struct {
	DatabaseURL string        `koanf:"database_url"`
	LogFormat   string        `koanf:"log_format"`
	LogLevel    string        `koanf:"log_level"`
	MetricsAddr string        `koanf:"metrics_addr"`
	Token       TokenConfig   `koanf:"token"`
	Redis       RedisConfig   `koanf:"redis"`
	Connect     ConnectConfig `koanf:"connect"`
}

// TokenConfig selects how access tokens are issued and where they are recorded.
type TokenConfig struct {
	Kind   string        `koanf:"kind"`
	Store  string        `koanf:"store"`
	Issuer string        `koanf:"issuer"`
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// RedisConfig locates the Redis token store.
type RedisConfig struct {
	Addr string `koanf:"addr"`
	DB   int    `koanf:"db"`
}

// ConnectConfig controls database connection retries.
type ConnectConfig struct {
	MaxRetries uint64        `koanf:"max_retries"`
	Backoff    time.Duration `koanf:"backoff"`
}

// ConnectOptions converts the retry settings for store.Connect.
func (c ConnectConfig) ConnectOptions() store.ConnectOptions {
	return store.ConnectOptions{MaxRetries: c.MaxRetries, Backoff: c.Backoff}
}

// flagKeys maps flag names registered by RegisterFlags to config keys.
var flagKeys = map[string]string{
	"database-url":    "database_url",
	"log-format":      "log_format",
	"log-level":       "log_level",
	"metrics-addr":    "metrics_addr",
	"token-kind":      "token.kind",
	"token-store":     "token.store",
	"token-issuer":    "token.issuer",
	"token-secret":    "token.secret",
	"token-ttl":       "token.ttl",
	"redis-addr":      "redis.addr",
	"redis-db":        "redis.db",
	"connect-retries": "connect.max_retries",
	"connect-backoff": "connect.backoff",
}

// RegisterFlags adds a flag for every config key. Flag defaults are the
// configuration defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL connection URL (default: $"+DatabaseURLEnv+")")
	fs.String("log-format", "json", "log format (json or text)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
	fs.String("token-kind", TokenKindOpaque, "access token kind (opaque or jwt)")
	fs.String("token-store", TokenStorePostgres, "where issued tokens are recorded (postgres or redis)")
	fs.String("token-issuer", "credgate", "JWT issuer claim")
	fs.String("token-secret", "", "JWT signing secret")
	fs.Duration("token-ttl", auth.DefaultAccessTokenTTL, "access token lifetime")
	fs.String("redis-addr", "localhost:6379", "Redis address for the redis token store")
	fs.Int("redis-db", 0, "Redis database number")
	fs.Uint64("connect-retries", store.DefaultConnectRetries, "database connection retries")
	fs.Duration("connect-backoff", store.DefaultConnectBackoff, "initial database connection retry delay")
}

// Load reads the YAML file at path, if path is not empty, then applies flags.
// Flags set explicitly override the file; unset flags fill in only keys the
// file leaves out.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "decode config").
			Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv(DatabaseURLEnv)
	}
	return &cfg, nil
}

// Validate checks settings that do not depend on the command being run.
func (c *Config) Validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return invalid("log_format", c.LogFormat, "must be json or text")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level", c.LogLevel, "must be debug, info, warn or error")
	}

	switch c.Token.Kind {
	case TokenKindOpaque:
	case TokenKindJWT:
		if c.Token.Issuer == "" {
			return invalid("token.issuer", c.Token.Issuer, "is required for jwt tokens")
		}
		if len(c.Token.Secret) < auth.MinJWTSecretLength {
			return oops.Code("CONFIG_INVALID").
				With("key", "token.secret").
				Errorf("token.secret must be at least %d bytes for jwt tokens", auth.MinJWTSecretLength)
		}
	default:
		return invalid("token.kind", c.Token.Kind, "must be opaque or jwt")
	}

	switch c.Token.Store {
	case TokenStorePostgres:
	case TokenStoreRedis:
		if c.Redis.Addr == "" {
			return invalid("redis.addr", c.Redis.Addr, "is required for the redis token store")
		}
	default:
		return invalid("token.store", c.Token.Store, "must be postgres or redis")
	}

	if c.Token.TTL < 0 {
		return invalid("token.ttl", c.Token.TTL.String(), "must not be negative")
	}
	return nil
}

// RequireDatabaseURL returns CONFIG_INVALID if no database URL is configured.
func (c *Config) RequireDatabaseURL() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			With("key", "database_url").
			Errorf("database_url or $%s is required", DatabaseURLEnv)
	}
	return nil
}

func invalid(key, value, reason string) error {
	return oops.Code("CONFIG_INVALID").
		With("key", key).
		With("value", value).
		Errorf("%s %s, got %q", key, reason, value)
}
