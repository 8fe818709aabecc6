// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package auth

import (
	"context"
	"reflect"

	"github.com/oklog/ulid/v2"
)

// UserByEmailLoader looks up a user by email.
type UserByEmailLoader interface {
	// LoadByEmail returns the user with the given email.
	// Returns (nil, nil) if no such user exists.
	LoadByEmail(ctx context.Context, email string) (*User, error)
}

// CredentialComparer checks a plaintext password against a stored hash.
type CredentialComparer interface {
	// Compare returns (true, nil) on match and (false, nil) on mismatch.
	Compare(ctx context.Context, password, hash string) (bool, error)
}

// TokenIssuer generates access tokens.
type TokenIssuer interface {
	// Generate returns a new access token for the user.
	Generate(ctx context.Context, userID ulid.ULID) (string, error)
}

// AccessTokenRecorder persists issued access tokens.
type AccessTokenRecorder interface {
	// UpdateAccessToken associates token with the user.
	UpdateAccessToken(ctx context.Context, userID ulid.ULID, token string) error
}

// LoaderFunc adapts a function to UserByEmailLoader.
type LoaderFunc func(ctx context.Context, email string) (*User, error)

// LoadByEmail calls f(ctx, email).
func (f LoaderFunc) LoadByEmail(ctx context.Context, email string) (*User, error) {
	return f(ctx, email)
}

// ComparerFunc adapts a function to CredentialComparer.
type ComparerFunc func(ctx context.Context, password, hash string) (bool, error)

// Compare calls f(ctx, password, hash).
func (f ComparerFunc) Compare(ctx context.Context, password, hash string) (bool, error) {
	return f(ctx, password, hash)
}

// IssuerFunc adapts a function to TokenIssuer.
type IssuerFunc func(ctx context.Context, userID ulid.ULID) (string, error)

// Generate calls f(ctx, userID).
func (f IssuerFunc) Generate(ctx context.Context, userID ulid.ULID) (string, error) {
	return f(ctx, userID)
}

// RecorderFunc adapts a function to AccessTokenRecorder.
type RecorderFunc func(ctx context.Context, userID ulid.ULID, token string) error

// UpdateAccessToken calls f(ctx, userID, token).
func (f RecorderFunc) UpdateAccessToken(ctx context.Context, userID ulid.ULID, token string) error {
	return f(ctx, userID, token)
}

// Config names the collaborators used by an Authenticator.
type Config struct {
	UserLoader    UserByEmailLoader
	Comparer      CredentialComparer
	TokenIssuer   TokenIssuer
	TokenRecorder AccessTokenRecorder
}

// Validate checks every collaborator in the order Authenticate uses them and
// returns the first MISSING_PARAM or INVALID_PARAM error.
// Authenticate performs the same checks on each call whether or not Validate was used.
func (c Config) Validate() error {
	checks := []struct {
		name string
		dep  any
	}{
		{ParamUserLoader, c.UserLoader},
		{ParamComparer, c.Comparer},
		{ParamTokenIssuer, c.TokenIssuer},
		{ParamTokenRecorder, c.TokenRecorder},
	}
	for _, check := range checks {
		if err := checkCollaborator(check.name, check.dep); err != nil {
			return err
		}
	}
	return nil
}

// checkCollaborator distinguishes an absent collaborator from one holding a
// nil implementation, which would panic when called.
func checkCollaborator(name string, dep any) error {
	if dep == nil {
		return ErrMissingParam(name)
	}
	if isNilImplementation(dep) {
		return ErrInvalidParam(name)
	}
	return nil
}

func isNilImplementation(dep any) bool {
	v := reflect.ValueOf(dep)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
