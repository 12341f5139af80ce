package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/louagetn/station-client/internal/api/middleware"
	"github.com/louagetn/station-client/internal/core/domain"
)

// ctxIdentity returns the identity injected by RequireAuthenticated. Its
// absence means the route was mounted without the middleware.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.Identity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}
