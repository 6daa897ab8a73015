// Package httperr defines the domain error taxonomy and the centralized
// mapping from error kinds to HTTP responses.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindReferential
)

// Error is a domain error carrying a kind and a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation reports malformed or missing input.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity for an id lookup.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a business-rule collision: double booking, duplicate
// codes, capacity exceeded.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Referential reports a dangling reference to another entity.
func Referential(format string, args ...interface{}) *Error {
	return &Error{Kind: KindReferential, Message: fmt.Sprintf(format, args...)}
}

// Status returns the HTTP status for an error.
func Status(err error) int {
	var de *Error
	if errors.As(err, &de) {
		switch de.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindNotFound:
			return http.StatusNotFound
		case KindConflict:
			return http.StatusConflict
		case KindReferential:
			return http.StatusUnprocessableEntity
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler returns the echo HTTPErrorHandler that renders every error as the
// uniform {"success":false,"message":...} envelope.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := Status(err)
		message := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message = fmt.Sprintf("%v", he.Message)
		}
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("path", c.Request().URL.Path).
				Msg("internal error")
			message = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorBody{Success: false, Message: message})
	}
}
