// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package auth

import (
	"io"
	"time"
)

// SetJWTClock replaces the issuer's clock for deterministic expiry tests.
func SetJWTClock(i *JWTIssuer, now func() time.Time) {
	i.now = now
}

// NewOpaqueTokenIssuerWithReader creates an issuer reading from r.
func NewOpaqueTokenIssuerWithReader(r io.Reader) *OpaqueTokenIssuer {
	return &OpaqueTokenIssuer{random: r}
}
