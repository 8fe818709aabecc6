// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

// Package redis records issued access tokens in Redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/credgate/credgate/internal/auth"
)

// KeyPrefix is prepended to the token digest to form the Redis key.
const KeyPrefix = "credgate:access_token:"

// Client is the subset of *redis.Client used by TokenStore.
type Client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *rdb.StatusCmd
	Get(ctx context.Context, key string) *rdb.StringCmd
}

// TokenStore maps access token digests to user IDs with an expiry.
// It implements auth.AccessTokenRecorder.
type TokenStore struct {
	client Client
	ttl    time.Duration
}

// NewTokenStore creates a TokenStore whose entries expire after ttl.
// A non-positive ttl uses auth.DefaultAccessTokenTTL.
func NewTokenStore(client Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Key returns the Redis key for token. The token itself is never stored.
func Key(token string) string {
	return KeyPrefix + auth.HashAccessToken(token)
}

// UpdateAccessToken records token as belonging to userID.
func (s *TokenStore) UpdateAccessToken(ctx context.Context, userID ulid.ULID, token string) error {
	if err := s.client.Set(ctx, Key(token), userID.String(), s.ttl).Err(); err != nil {
		return oops.Code("TOKEN_STORE_FAILED").
			With("operation", "set access token").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// UserIDForToken returns the user a live token was recorded for.
// Returns auth.ErrNotFound if the token is unknown or expired.
func (s *TokenStore) UserIDForToken(ctx context.Context, token string) (ulid.ULID, error) {
	value, err := s.client.Get(ctx, Key(token)).Result()
	if errors.Is(err, rdb.Nil) {
		return ulid.ULID{}, oops.Code("TOKEN_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_LOOKUP_FAILED").
			With("operation", "get access token").
			Wrap(err)
	}

	userID, err := ulid.Parse(value)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_LOOKUP_FAILED").
			With("operation", "parse user id").
			With("value", value).
			Wrap(err)
	}
	return userID, nil
}
