package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/louagetn/station-client/internal/core/domain"
)

// RequireRole enforces role-based access on top of RequireAuthenticated.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get(IdentityKey).(*domain.Identity)
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no staff signed in")
			}
			if _, ok := allowed[identity.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
