// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

// Package postgres provides PostgreSQL implementations of the auth collaborators.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/credgate/credgate/internal/auth"
)

// DB is the subset of *pgxpool.Pool used by UserRepository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository stores users in PostgreSQL.
// It implements auth.UserByEmailLoader and auth.AccessTokenRecorder.
type UserRepository struct {
	db  DB
	now func() time.Time
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Create stores a new user. Returns USER_EMAIL_TAKEN if another user has the
// same email, ignoring case.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		user.ID.String(),
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_EMAIL_TAKEN").
				With("email", user.Email).
				Wrap(err)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}
	return nil
}

// LoadByEmail returns the user with the given email, ignoring case.
// Returns (nil, nil) if there is none.
func (r *UserRepository) LoadByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)

	var (
		idStr string
		user  auth.User
	)
	err := row.Scan(&idStr, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_LOAD_FAILED").
			With("operation", "load user by email").
			With("email", email).
			Wrap(err)
	}

	user.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_LOAD_FAILED").
			With("operation", "parse user id").
			With("id", idStr).
			Wrap(err)
	}
	return &user, nil
}

// UpdateAccessToken stores the SHA-256 digest of token as the user's current
// access token, replacing any previous one.
func (r *UserRepository) UpdateAccessToken(ctx context.Context, userID ulid.ULID, token string) error {
	now := r.now().UTC()
	result, err := r.db.Exec(ctx, `
		UPDATE users SET
			access_token_hash = $2,
			access_token_issued_at = $3,
			updated_at = $3
		WHERE id = $1
	`, userID.String(), auth.HashAccessToken(token), now)
	if err != nil {
		return oops.Code("USER_TOKEN_UPDATE_FAILED").
			With("operation", "update access token").
			With("id", userID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", userID.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}
