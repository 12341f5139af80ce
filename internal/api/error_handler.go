package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/core/domain"
)

// errorResponse is the error envelope of the local API.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler renders {"error": "..."} and maps session outcomes to
// status codes. Unknown errors are logged and hidden behind a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, "no session"
	case errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionRejected),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrTransientNetwork):
		return http.StatusServiceUnavailable, "auth service unreachable"
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, "unexpected answer from auth service"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
