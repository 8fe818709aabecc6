// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// AccessTokenBytes is the entropy of an opaque access token (64 hex chars).
const AccessTokenBytes = 32

// OpaqueTokenIssuer generates random hex access tokens. It implements TokenIssuer.
type OpaqueTokenIssuer struct {
	random io.Reader
}

// NewOpaqueTokenIssuer creates an OpaqueTokenIssuer reading from crypto/rand.
func NewOpaqueTokenIssuer() *OpaqueTokenIssuer {
	return &OpaqueTokenIssuer{random: rand.Reader}
}

// Generate returns a new random token. The user ID is not encoded in it.
func (i *OpaqueTokenIssuer) Generate(_ context.Context, userID ulid.ULID) (string, error) {
	tokenBytes := make([]byte, AccessTokenBytes)
	if _, err := io.ReadFull(i.random, tokenBytes); err != nil {
		return "", oops.Code("TOKEN_GENERATE_FAILED").
			With("operation", "read random bytes").
			With("requested_bytes", AccessTokenBytes).
			With("user_id", userID.String()).
			Wrap(err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// HashAccessToken computes the SHA256 hash of an access token.
// Stores keep this digest instead of the token itself.
func HashAccessToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyAccessToken checks if the plaintext token matches the stored hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifyAccessToken(token, hash string) (bool, error) {
	if token == "" {
		return false, oops.Code("TOKEN_EMPTY").Errorf("access token cannot be empty")
	}
	if hash == "" {
		return false, oops.Code("TOKEN_HASH_EMPTY").Errorf("stored hash cannot be empty")
	}
	computed := HashAccessToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}
