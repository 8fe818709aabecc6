// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package auth

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/credgate/credgate/pkg/errutil"
)

var tracer = otel.Tracer("credgate/auth")

// Authenticator verifies credentials and issues access tokens.
// It is safe for concurrent use if its collaborators are.
type Authenticator struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithLogger sets the logger used for rejections and collaborator failures.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAuthenticator creates an Authenticator.
// Collaborators are not checked here; Authenticate checks them on every call.
// Use Config.Validate to fail early at wiring time.
func NewAuthenticator(cfg Config, opts ...Option) *Authenticator {
	a := &Authenticator{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate checks email and password and, if they match a user, issues an
// access token and records it against that user.
//
// Returns (token, true, nil) on success. Returns ("", false, nil) when the email
// is unknown or the password does not match; the two cases are not
// distinguishable. Returns a MISSING_PARAM or INVALID_PARAM error for a bad
// input or collaborator, and any collaborator error unchanged.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (token string, ok bool, err error) {
	ctx, span := tracer.Start(ctx, "auth.authenticate")
	rec := newAttemptRecorder()
	defer func() {
		span.SetAttributes(attribute.String("auth.outcome", rec.outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		rec.record()
	}()

	if email == "" {
		rec.setOutcome(OutcomeInvalidRequest)
		return "", false, ErrMissingParam(ParamEmail)
	}
	if password == "" {
		rec.setOutcome(OutcomeInvalidRequest)
		return "", false, ErrMissingParam(ParamPassword)
	}

	if err = checkCollaborator(ParamUserLoader, a.cfg.UserLoader); err != nil {
		rec.setOutcome(OutcomeInvalidRequest)
		return "", false, err
	}
	user, err := a.cfg.UserLoader.LoadByEmail(ctx, email)
	if err != nil {
		a.logFailure(ctx, "load user", email, err)
		return "", false, err
	}
	if user == nil {
		a.logRejected(ctx, email)
		rec.setOutcome(OutcomeRejected)
		return "", false, nil
	}

	if err = checkCollaborator(ParamComparer, a.cfg.Comparer); err != nil {
		rec.setOutcome(OutcomeInvalidRequest)
		return "", false, err
	}
	match, err := a.cfg.Comparer.Compare(ctx, password, user.PasswordHash)
	if err != nil {
		a.logFailure(ctx, "compare password", email, err)
		return "", false, err
	}
	if !match {
		a.logRejected(ctx, email)
		rec.setOutcome(OutcomeRejected)
		return "", false, nil
	}

	if err = checkCollaborator(ParamTokenIssuer, a.cfg.TokenIssuer); err != nil {
		rec.setOutcome(OutcomeInvalidRequest)
		return "", false, err
	}
	token, err = a.cfg.TokenIssuer.Generate(ctx, user.ID)
	if err != nil {
		a.logFailure(ctx, "generate token", email, err)
		return "", false, err
	}

	if err = checkCollaborator(ParamTokenRecorder, a.cfg.TokenRecorder); err != nil {
		rec.setOutcome(OutcomeInvalidRequest)
		return "", false, err
	}
	if err = a.cfg.TokenRecorder.UpdateAccessToken(ctx, user.ID, token); err != nil {
		a.logFailure(ctx, "record token", email, err)
		return "", false, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	rec.setOutcome(OutcomeAuthenticated)
	return token, true, nil
}

// logRejected is shared by the unknown-email and wrong-password paths so that
// logs do not reveal which one occurred.
func (a *Authenticator) logRejected(ctx context.Context, email string) {
	a.logger.DebugContext(ctx, "authentication rejected", "email", email)
}

func (a *Authenticator) logFailure(ctx context.Context, step, email string, err error) {
	errutil.LogErrorContext(ctx, a.logger.With("step", step, "email", email), "authentication failed", err)
}
