package authsim

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/louagetn/station-client/internal/core/ports"
)

const (
	ctxToken = "token"
	ctxStaff = "staff"
)

// BearerToken extracts the bearer token into the context without checking it.
func BearerToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, msg := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return failure(c, http.StatusUnauthorized, msg)
			}
			c.Set(ctxToken, token)
			return next(c)
		}
	}
}

// RequireStaff verifies the bearer token and injects the staff account.
func RequireStaff(svc ports.StaffAuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return BearerToken()(func(c echo.Context) error {
			token := c.Get(ctxToken).(string)
			account, err := svc.Verify(c.Request().Context(), token)
			if err != nil {
				return failure(c, http.StatusUnauthorized, err.Error())
			}
			c.Set(ctxStaff, account)
			return next(c)
		})
	}
}

func bearer(header string) (token, msg string) {
	if header == "" {
		return "", "missing authorization header"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid authorization header"
	}
	return strings.TrimSpace(parts[1]), ""
}
