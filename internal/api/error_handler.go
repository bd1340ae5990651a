package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Client
// errors carry Message, server errors carry Error; Name identifies the
// failure kind for programmatic callers.
type errorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Name    string `json:"name,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes and error names.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"message","name"} for 4xx and {"error","name"} for 5xx.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			return he.Code, errorResponse{Error: msg}
		}
		return he.Code, errorResponse{Message: msg}
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, errorResponse{Message: "Email exists", Name: domain.NameDuplicateEmail}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: "Auth failed", Name: domain.NameInvalidCredentials}
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Message: "Token expired", Name: domain.NameTokenExpired}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, errorResponse{Message: "Token invalid", Name: domain.NameTokenInvalid}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: "Access forbidden", Name: domain.NameUnauthorized}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: "User not found", Name: domain.NameUserNotFound}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Message: err.Error(), Name: domain.NameInvalidInput}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	body := errorResponse{Error: "internal server error"}
	if errors.Is(err, domain.ErrStore) {
		body.Name = domain.NameStore
	}
	return http.StatusInternalServerError, body
}
