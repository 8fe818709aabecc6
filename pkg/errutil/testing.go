// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package errutil

import (
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestingT is satisfied by *testing.T and by ginkgo's GinkgoT().
type TestingT interface {
	require.TestingT
	Helper()
}

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t TestingT, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	if !ok {
		return
	}
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t TestingT, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	if !ok {
		return
	}
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}

// AssertNoErrorContext asserts that err carries none of keys in its context.
// Use it to check that secrets never reach error context.
func AssertNoErrorContext(t TestingT, err error, keys ...string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	if !ok {
		return
	}
	ctx := oopsErr.Context()
	for _, key := range keys {
		assert.NotContains(t, ctx, key)
	}
}
