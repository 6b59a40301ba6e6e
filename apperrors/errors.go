// Package apperrors defines the error kinds every handler and service
// agrees on. Callers must be able to tell "doesn't exist" apart from
// "not permitted", and both apart from "not logged in".
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrUnauthorized    = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("already exists")
)

// Status maps an error to the HTTP status the handlers respond with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
