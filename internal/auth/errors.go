// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Error codes for authentication failures.
const (
	CodeMissingParam = "MISSING_PARAM"
	CodeInvalidParam = "INVALID_PARAM"
)

// Parameter names reported by MISSING_PARAM and INVALID_PARAM errors.
const (
	ParamEmail         = "email"
	ParamPassword      = "password"
	ParamUserLoader    = "loadUserEmailRepository"
	ParamComparer      = "encrypter"
	ParamTokenIssuer   = "tokenGenerator"
	ParamTokenRecorder = "updateAccessTokenRepository"
)

// ErrMissingParam creates an error for a required input or collaborator that was not supplied.
func ErrMissingParam(name string) error {
	return oops.Code(CodeMissingParam).
		With("param", name).
		Errorf("missing param: %s", name)
}

// ErrInvalidParam creates an error for a collaborator that was supplied but cannot be used.
func ErrInvalidParam(name string) error {
	return oops.Code(CodeInvalidParam).
		With("param", name).
		Errorf("invalid param: %s", name)
}

// IsMissingParam reports whether err is a MISSING_PARAM error for the named parameter.
func IsMissingParam(err error, name string) bool {
	return hasParamCode(err, CodeMissingParam, name)
}

// IsInvalidParam reports whether err is an INVALID_PARAM error for the named parameter.
func IsInvalidParam(err error, name string) bool {
	return hasParamCode(err, CodeInvalidParam, name)
}

func hasParamCode(err error, code, name string) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok || oopsErr.Code() != code {
		return false
	}
	param, ok := oopsErr.Context()["param"].(string)
	return ok && param == name
}
