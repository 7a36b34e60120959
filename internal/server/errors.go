// Package server provides the HTTP REST API for the job search assistant.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-search-assistant/internal/search"
	"github.com/jonathan/job-search-assistant/internal/session"
	"github.com/jonathan/job-search-assistant/internal/tailor"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var searchErr *search.Error
	var tailorErr *tailor.Error

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr),
		errors.Is(err, session.ErrUnknownListing),
		errors.Is(err, session.ErrUnknownTab):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoSelection),
		errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &searchErr), errors.As(err, &tailorErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the text sent to clients. Internal errors are not
// described beyond their status.
func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
