// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"context"

	"github.com/samber/oops"

	"github.com/credgate/credgate/internal/auth"
	"github.com/credgate/credgate/internal/auth/postgres"
	authredis "github.com/credgate/credgate/internal/auth/redis"
	"github.com/credgate/credgate/internal/config"
)

// connect opens the database pool configured for a.
func (a *app) connect(ctx context.Context) (Pool, error) {
	if err := a.cfg.RequireDatabaseURL(); err != nil {
		return nil, err
	}
	return a.deps.Connect(ctx, a.cfg.DatabaseURL, a.cfg.Connect.ConnectOptions())
}

// newTokenIssuer builds the issuer selected by token.kind.
func newTokenIssuer(cfg config.TokenConfig) (auth.TokenIssuer, error) {
	switch cfg.Kind {
	case config.TokenKindJWT:
		issuer, err := auth.NewJWTIssuer(cfg.Issuer, []byte(cfg.Secret), cfg.TTL)
		if err != nil {
			return nil, err
		}
		return issuer, nil
	case config.TokenKindOpaque:
		return auth.NewOpaqueTokenIssuer(), nil
	default:
		return nil, oops.Code("CONFIG_INVALID").With("key", "token.kind").Errorf("unknown token kind %q", cfg.Kind)
	}
}

// newAuthenticator wires an Authenticator over pool. The returned cleanup
// releases any connection opened for the token store.
func (a *app) newAuthenticator(pool Pool) (*auth.Authenticator, func(), error) {
	users := postgres.NewUserRepository(pool)

	issuer, err := newTokenIssuer(a.cfg.Token)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var recorder auth.AccessTokenRecorder = users
	if a.cfg.Token.Store == config.TokenStoreRedis {
		client := a.deps.NewRedisClient(a.cfg.Redis)
		cleanup = func() {
			if err := client.Close(); err != nil {
				a.logger.Warn("failed to close redis client", "error", err)
			}
		}
		recorder = authredis.NewTokenStore(client, a.cfg.Token.TTL)
	}

	cfg := auth.Config{
		UserLoader:    users,
		Comparer:      auth.NewPasswordHasher(),
		TokenIssuer:   issuer,
		TokenRecorder: recorder,
	}
	if err := cfg.Validate(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return auth.NewAuthenticator(cfg, auth.WithLogger(a.logger)), cleanup, nil
}
