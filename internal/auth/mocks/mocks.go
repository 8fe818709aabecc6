// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

// Package mocks provides testify mocks for the auth collaborator interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/credgate/credgate/internal/auth"
)

// TestingT is the subset of *testing.T the constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUserByEmailLoader is a mock of auth.UserByEmailLoader.
type MockUserByEmailLoader struct {
	mock.Mock
}

// NewMockUserByEmailLoader creates a mock that asserts its expectations on cleanup.
func NewMockUserByEmailLoader(t TestingT) *MockUserByEmailLoader {
	m := &MockUserByEmailLoader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// LoadByEmail implements auth.UserByEmailLoader.
func (m *MockUserByEmailLoader) LoadByEmail(ctx context.Context, email string) (*auth.User, error) {
	ret := m.Called(ctx, email)

	var user *auth.User
	if v := ret.Get(0); v != nil {
		user = v.(*auth.User)
	}
	return user, ret.Error(1)
}

// MockCredentialComparer is a mock of auth.CredentialComparer.
type MockCredentialComparer struct {
	mock.Mock
}

// NewMockCredentialComparer creates a mock that asserts its expectations on cleanup.
func NewMockCredentialComparer(t TestingT) *MockCredentialComparer {
	m := &MockCredentialComparer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Compare implements auth.CredentialComparer.
func (m *MockCredentialComparer) Compare(ctx context.Context, password, hash string) (bool, error) {
	ret := m.Called(ctx, password, hash)
	return ret.Bool(0), ret.Error(1)
}

// MockTokenIssuer is a mock of auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a mock that asserts its expectations on cleanup.
func NewMockTokenIssuer(t TestingT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Generate implements auth.TokenIssuer.
func (m *MockTokenIssuer) Generate(ctx context.Context, userID ulid.ULID) (string, error) {
	ret := m.Called(ctx, userID)
	return ret.String(0), ret.Error(1)
}

// MockAccessTokenRecorder is a mock of auth.AccessTokenRecorder.
type MockAccessTokenRecorder struct {
	mock.Mock
}

// NewMockAccessTokenRecorder creates a mock that asserts its expectations on cleanup.
func NewMockAccessTokenRecorder(t TestingT) *MockAccessTokenRecorder {
	m := &MockAccessTokenRecorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// UpdateAccessToken implements auth.AccessTokenRecorder.
func (m *MockAccessTokenRecorder) UpdateAccessToken(ctx context.Context, userID ulid.ULID, token string) error {
	ret := m.Called(ctx, userID, token)
	return ret.Error(0)
}
