package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// SessionInfoReader reports on the persisted session without changing it.
type SessionInfoReader interface {
	GetSessionInfo(ctx context.Context) domain.SessionInfo
}

type SessionHandler struct {
	ctrl ports.AuthController
	info SessionInfoReader
}

func NewSessionHandler(ctrl ports.AuthController, info SessionInfoReader) *SessionHandler {
	return &SessionHandler{ctrl: ctrl, info: info}
}

// Info returns session diagnostics.
//
// @Summary      Session diagnostics
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.SessionInfo
// @Router       /api/v1/session/info [get]
func (h *SessionHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, h.info.GetSessionInfo(c.Request().Context()))
}

// Refresh re-verifies the session with the auth service now.
//
// @Summary      Refresh session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.AuthState
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	if err := h.ctrl.RefreshNow(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.ctrl.State())
}

// Reset force-ends the station session. Supervisors and admins only.
//
// @Summary      Force session reset
// @Tags         session
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/session [delete]
func (h *SessionHandler) Reset(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	h.ctrl.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
