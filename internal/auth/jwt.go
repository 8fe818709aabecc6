// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MinJWTSecretLength is the shortest HS256 secret NewJWTIssuer accepts.
const MinJWTSecretLength = 32

// DefaultAccessTokenTTL is used when a JWTIssuer is created with a zero TTL.
const DefaultAccessTokenTTL = 15 * time.Minute

// JWTIssuer signs HS256 access tokens. It implements TokenIssuer.
type JWTIssuer struct {
	issuer string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a JWTIssuer.
func NewJWTIssuer(issuer string, secret []byte, ttl time.Duration) (*JWTIssuer, error) {
	if issuer == "" {
		return nil, oops.Code("JWT_INVALID_CONFIG").Errorf("issuer cannot be empty")
	}
	if len(secret) < MinJWTSecretLength {
		return nil, oops.Code("JWT_INVALID_CONFIG").
			With("min", MinJWTSecretLength).
			Errorf("secret must be at least %d bytes", MinJWTSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &JWTIssuer{
		issuer: issuer,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Generate signs a token whose subject is the user ID.
func (i *JWTIssuer) Generate(_ context.Context, userID ulid.ULID) (string, error) {
	now := i.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		ID:        ulid.Make().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["typ"] = "JWT"

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_GENERATE_FAILED").
			With("operation", "sign jwt").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return signed, nil
}

// Parse verifies a token signed by this issuer and returns its subject.
func (i *JWTIssuer) Parse(tokenString string) (ulid.ULID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_INVALID").Wrap(err)
	}

	userID, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_INVALID").
			With("subject", claims.Subject).
			Wrap(err)
	}
	return userID, nil
}
