// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credgate/credgate/pkg/errutil"
)

type fakePool struct {
	pingErr error
	closed  bool
}

func (p *fakePool) Ping(context.Context) error { return p.pingErr }
func (p *fakePool) Close()                     { p.closed = true }

func TestConnect_RetriesUntilPingSucceeds(t *testing.T) {
	var opened []*fakePool
	open := func(context.Context) (*fakePool, error) {
		p := &fakePool{}
		if len(opened) < 2 {
			p.pingErr = errors.New("connection refused")
		}
		opened = append(opened, p)
		return p, nil
	}

	pool, err := connect(context.Background(), ConnectOptions{MaxRetries: 3, Backoff: time.Millisecond}, open)
	require.NoError(t, err)
	require.Len(t, opened, 3)
	assert.Same(t, opened[2], pool)
	assert.True(t, opened[0].closed, "failed pools are closed")
	assert.True(t, opened[1].closed)
	assert.False(t, pool.closed)
}

func TestConnect_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	open := func(context.Context) (*fakePool, error) {
		attempts++
		return &fakePool{pingErr: errors.New("connection refused")}, nil
	}

	pool, err := connect(context.Background(), ConnectOptions{MaxRetries: 2, Backoff: time.Millisecond}, open)
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Equal(t, 3, attempts)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
	errutil.AssertErrorContext(t, err, "attempts", 3)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestConnect_OpenErrorIsNotRetried(t *testing.T) {
	attempts := 0
	open := func(context.Context) (*fakePool, error) {
		attempts++
		return nil, errors.New("bad config")
	}

	_, err := connect(context.Background(), ConnectOptions{MaxRetries: 5, Backoff: time.Millisecond}, open)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	errutil.AssertErrorCode(t, err, "DB_CONNECT_FAILED")
}

func TestConnect_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	open := func(context.Context) (*fakePool, error) {
		cancel()
		return &fakePool{pingErr: errors.New("connection refused")}, nil
	}

	_, err := connect(ctx, ConnectOptions{MaxRetries: 100, Backoff: time.Hour}, open)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", ConnectOptions{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}
