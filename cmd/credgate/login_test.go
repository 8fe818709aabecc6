// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package main

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credgate/credgate/internal/auth"
	authredis "github.com/credgate/credgate/internal/auth/redis"
	"github.com/credgate/credgate/internal/config"
	"github.com/credgate/credgate/internal/store"
	"github.com/credgate/credgate/pkg/errutil"
)

var opaqueTokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestLogin_IssuesAndRecordsToken(t *testing.T) {
	deps, mock := mockPoolDeps(t)
	expectUser(t, mock, "valid@mail.com")
	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	res := execute(t, deps, nil, "login",
		"--database-url", testDatabaseURL,
		"--email", "valid@mail.com",
		"--password", "valid_password")
	require.NoError(t, res.err)

	token := strings.TrimSpace(res.stdout)
	assert.Regexp(t, opaqueTokenPattern, token)
	assert.NotContains(t, res.stderr, token, "token must not be logged")
	assert.NotContains(t, res.stderr, "valid_password")
}

func TestLogin_WrongPasswordIsRejected(t *testing.T) {
	deps, mock := mockPoolDeps(t)
	expectUser(t, mock, "valid@mail.com")

	res := execute(t, deps, nil, "login",
		"--database-url", testDatabaseURL,
		"--email", "valid@mail.com",
		"--password", "wrong_password")
	require.Error(t, res.err)
	errutil.AssertErrorCode(t, res.err, "AUTH_REJECTED")
	assert.Empty(t, res.stdout)
}

func TestLogin_UnknownUserIsRejected(t *testing.T) {
	deps, mock := mockPoolDeps(t)
	mock.ExpectQuery(`FROM users`).
		WithArgs("invalid@mail.com").
		WillReturnRows(pgxmock.NewRows(userColumns))

	res := execute(t, deps, nil, "login",
		"--database-url", testDatabaseURL,
		"--email", "invalid@mail.com",
		"--password", "valid_password")
	require.Error(t, res.err)
	errutil.AssertErrorCode(t, res.err, "AUTH_REJECTED")
	assert.Equal(t, "invalid email or password", res.err.Error())
}

func TestLogin_MissingEmail(t *testing.T) {
	deps, _ := mockPoolDeps(t)

	res := execute(t, deps, nil, "login",
		"--database-url", testDatabaseURL,
		"--password", "valid_password")
	require.Error(t, res.err)
	assert.True(t, auth.IsMissingParam(res.err, auth.ParamEmail), "got %v", res.err)
}

func TestLogin_RequiresDatabaseURL(t *testing.T) {
	t.Setenv(config.DatabaseURLEnv, "")

	connected := false
	deps := &Deps{Connect: func(context.Context, string, store.ConnectOptions) (Pool, error) {
		connected = true
		return nil, nil
	}}

	res := execute(t, deps, nil, "login", "--email", "valid@mail.com", "--password", "valid_password")
	require.Error(t, res.err)
	errutil.AssertErrorCode(t, res.err, "CONFIG_INVALID")
	errutil.AssertErrorContext(t, res.err, "key", "database_url")
	assert.False(t, connected)
}

func TestLogin_JWTTokens(t *testing.T) {
	secret := strings.Repeat("s", auth.MinJWTSecretLength)
	deps, mock := mockPoolDeps(t)
	id := expectUser(t, mock, "valid@mail.com")
	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(id.String(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	res := execute(t, deps, nil, "login",
		"--database-url", testDatabaseURL,
		"--token-kind", "jwt",
		"--token-issuer", "credgate-test",
		"--token-secret", secret,
		"--email", "valid@mail.com",
		"--password", "valid_password")
	require.NoError(t, res.err)

	issuer, err := auth.NewJWTIssuer("credgate-test", []byte(secret), time.Minute)
	require.NoError(t, err)
	subject, err := issuer.Parse(strings.TrimSpace(res.stdout))
	require.NoError(t, err)
	assert.Equal(t, id, subject)
}

// memoryRedis is an in-memory RedisClient.
type memoryRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	closed bool
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (r *memoryRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *rdb.StatusCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value.(string)
	r.ttls[key] = expiration
	return rdb.NewStatusResult("OK", nil)
}

func (r *memoryRedis) Get(_ context.Context, key string) *rdb.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return rdb.NewStringResult("", rdb.Nil)
	}
	return rdb.NewStringResult(v, nil)
}

func (r *memoryRedis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func TestLogin_RedisTokenStore(t *testing.T) {
	deps, mock := mockPoolDeps(t)
	id := expectUser(t, mock, "valid@mail.com")

	redis := newMemoryRedis()
	deps.NewRedisClient = func(cfg config.RedisConfig) RedisClient {
		assert.Equal(t, "cache:6379", cfg.Addr)
		assert.Equal(t, 3, cfg.DB)
		return redis
	}

	res := execute(t, deps, nil, "login",
		"--database-url", testDatabaseURL,
		"--token-store", "redis",
		"--token-ttl", "5m",
		"--redis-addr", "cache:6379",
		"--redis-db", "3",
		"--email", "valid@mail.com",
		"--password", "valid_password")
	require.NoError(t, res.err)

	token := strings.TrimSpace(res.stdout)
	key := authredis.Key(token)
	assert.Equal(t, id.String(), redis.values[key])
	assert.Equal(t, 5*time.Minute, redis.ttls[key])
	assert.True(t, redis.closed, "redis client should be closed")
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	deps, mock := mockPoolDeps(t)
	expectUser(t, mock, "valid@mail.com")
	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	res := execute(t, deps, strings.NewReader("valid_password\n"), "login",
		"--database-url", testDatabaseURL,
		"--email", "valid@mail.com",
		"--password-stdin")
	require.NoError(t, res.err)
	assert.Regexp(t, opaqueTokenPattern, strings.TrimSpace(res.stdout))
}

func TestLogin_PasswordFlagsAreExclusive(t *testing.T) {
	res := execute(t, nil, strings.NewReader("valid_password\n"), "login",
		"--database-url", testDatabaseURL,
		"--email", "valid@mail.com",
		"--password", "valid_password",
		"--password-stdin")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "password-stdin")
}
