package authsim

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/api/middleware"
	"github.com/louagetn/station-client/internal/core/ports"
	"github.com/louagetn/station-client/internal/pkg/validate"
)

// NewRouter serves the simulator under /api, matching the real service's
// layout so AUTH_API_URL can point at either.
func NewRouter(svc ports.StaffAuthService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLog(log))

	h := NewHandler(svc, log)

	api := e.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/verify", h.Verify, RequireStaff(svc))
	api.POST("/auth/logout", h.Logout, BearerToken())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

// errorHandler keeps the {success,message} envelope for framework errors
// too (404, 405, bind failures, panics).
func errorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := http.StatusInternalServerError, "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		} else {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		_ = failure(c, code, msg)
	}
}
