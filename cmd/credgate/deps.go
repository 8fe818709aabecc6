// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"

	"github.com/credgate/credgate/internal/auth/postgres"
	authredis "github.com/credgate/credgate/internal/auth/redis"
	"github.com/credgate/credgate/internal/config"
	"github.com/credgate/credgate/internal/observability"
	"github.com/credgate/credgate/internal/store"
)

// Deps contains injectable dependencies for the CLI commands.
// All fields with nil values will use their default implementations.
type Deps struct {
	// Connect opens the database pool.
	// Default: store.Connect
	Connect func(ctx context.Context, databaseURL string, opts store.ConnectOptions) (Pool, error)

	// NewMigrator creates a schema migrator.
	// Default: store.NewMigrator
	NewMigrator func(databaseURL string) (Migrator, error)

	// NewRedisClient creates the client for the redis token store.
	// Default: redis.NewClient
	NewRedisClient func(cfg config.RedisConfig) RedisClient

	// NewObservabilityServer creates the metrics and health server.
	// Default: observability.NewServer
	NewObservabilityServer func(addr string, ready observability.ReadinessChecker) ObservabilityServer
}

// Pool wraps the methods used from *pgxpool.Pool.
type Pool interface {
	postgres.DB
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Force(version int) error
	Version() (version uint, dirty bool, err error)
	PendingMigrations() ([]uint, error)
	Close() error
}

// RedisClient wraps the methods used from *redis.Client.
type RedisClient interface {
	authredis.Client
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Registry() *prometheus.Registry
}

// withDefaults returns a copy of d with nil fields set to the real implementations.
func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.Connect == nil {
		out.Connect = func(ctx context.Context, databaseURL string, opts store.ConnectOptions) (Pool, error) {
			pool, err := store.Connect(ctx, databaseURL, opts)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.NewMigrator == nil {
		out.NewMigrator = func(databaseURL string) (Migrator, error) {
			m, err := store.NewMigrator(databaseURL)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.NewRedisClient == nil {
		out.NewRedisClient = func(cfg config.RedisConfig) RedisClient {
			return rdb.NewClient(&rdb.Options{Addr: cfg.Addr, DB: cfg.DB})
		}
	}
	if out.NewObservabilityServer == nil {
		out.NewObservabilityServer = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
	return &out
}

var _ Pool = (*pgxpool.Pool)(nil)
