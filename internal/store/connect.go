// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

// Package store manages the credgate PostgreSQL schema and connections.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection defaults.
const (
	DefaultConnectRetries = 5
	DefaultConnectBackoff = 500 * time.Millisecond
)

// ConnectOptions controls how Connect retries an unreachable database.
type ConnectOptions struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
	// Backoff is the first retry delay; it doubles on each retry.
	Backoff time.Duration
}

func (o ConnectOptions) backoff() retry.Backoff {
	base := o.Backoff
	if base <= 0 {
		base = DefaultConnectBackoff
	}
	return retry.WithMaxRetries(o.MaxRetries, retry.NewExponential(base))
}

type pinger interface {
	Ping(ctx context.Context) error
	Close()
}

// Connect opens a pgx pool and pings it, retrying with exponential backoff
// until the database answers or the retries run out.
// A malformed URL fails immediately.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}
	return connect(ctx, opts, func(ctx context.Context) (*pgxpool.Pool, error) {
		return pgxpool.NewWithConfig(ctx, cfg)
	})
}

func connect[P pinger](ctx context.Context, opts ConnectOptions, open func(context.Context) (P, error)) (P, error) {
	var (
		pool    P
		attempt int
	)
	err := retry.Do(ctx, opts.backoff(), func(ctx context.Context) error {
		attempt++
		candidate, err := open(ctx)
		if err != nil {
			return err
		}
		if err := candidate.Ping(ctx); err != nil {
			candidate.Close()
			slog.WarnContext(ctx, "database not reachable, retrying",
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}
		pool = candidate
		return nil
	})
	if err != nil {
		var zero P
		return zero, oops.Code("DB_CONNECT_FAILED").
			With("attempts", attempt).
			Wrap(err)
	}
	return pool, nil
}
