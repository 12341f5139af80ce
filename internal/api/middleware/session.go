package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// IdentityKey is where RequireAuthenticated stores the signed-in *domain.Identity.
const IdentityKey = "identity"

// StateReader is the part of the auth controller the middleware needs.
type StateReader interface {
	State() domain.AuthState
}

var _ StateReader = (ports.AuthController)(nil)

// RequireAuthenticated lets the request through only while a staff member is
// signed in at the station.
func RequireAuthenticated(ctrl StateReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := ctrl.State()
			if !state.IsAuthenticated || state.CurrentIdentity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no staff signed in")
			}
			c.Set(IdentityKey, state.CurrentIdentity)
			return next(c)
		}
	}
}
