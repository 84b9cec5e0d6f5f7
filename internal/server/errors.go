// Package server provides the HTTP REST API for the CV matcher.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/cv-matcher/internal/completion"
	"github.com/jonathan/cv-matcher/internal/export"
	"github.com/jonathan/cv-matcher/internal/ingest"
	"github.com/jonathan/cv-matcher/internal/ledger"
	"github.com/jonathan/cv-matcher/internal/match"
	"github.com/jonathan/cv-matcher/internal/parsing"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps an error to its HTTP status code. Upstream completion
// and parse failures surface as 502 since the fault is the provider's,
// not the caller's.
func HTTPStatus(err error) int {
	var (
		authRequired *ledger.AuthRequiredError
		insufficient *ledger.InsufficientBalanceError
		badInput     *match.ValidationError
		transport    *completion.TransportError
		schema       *completion.SchemaError
		parse        *parsing.ParseError
		fetch        *ingest.FetchError
		badFormat    *export.UnsupportedFormatError
	)

	switch {
	case errors.As(err, &authRequired):
		return http.StatusUnauthorized
	case errors.As(err, &insufficient):
		return http.StatusPaymentRequired
	case errors.As(err, &badInput), errors.As(err, &badFormat):
		return http.StatusBadRequest
	case errors.As(err, &transport), errors.As(err, &schema), errors.As(err, &parse):
		return http.StatusBadGateway
	case errors.As(err, &fetch):
		return http.StatusBadGateway
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
