// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

// Package auth decides whether an email/password pair is valid and, when it is,
// issues and records an access token.
//
// # Authenticator
//
// Authenticator composes four collaborators, each a single-method capability:
//   - UserByEmailLoader - looks a user up by email
//   - CredentialComparer - compares a plaintext password with a stored hash
//   - TokenIssuer - generates an access token for a user ID
//   - AccessTokenRecorder - persists the issued token against the user
//
// Collaborators are supplied through Config and are checked on every call to
// Authenticate, in the order they are used. A nil collaborator fails with a
// MISSING_PARAM error; a collaborator that is set but unusable (for example a
// typed nil pointer or a nil func adapter) fails with INVALID_PARAM.
//
// Authenticate returns (token, true, nil) on success and ("", false, nil) when
// the email is unknown or the password does not match. The two rejections are
// indistinguishable to the caller. Errors raised by collaborators are returned
// unchanged.
//
// # Collaborator implementations
//
// PasswordHasher, OpaqueTokenIssuer and JWTIssuer live in this package.
// Storage-backed loaders and recorders live in the postgres and redis
// subpackages.
package auth
