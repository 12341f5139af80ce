package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// AuthHandler exposes the auth controller to the kiosk UI.
type AuthHandler struct {
	ctrl ports.AuthController
}

func NewAuthHandler(ctrl ports.AuthController) *AuthHandler {
	return &AuthHandler{ctrl: ctrl}
}

type loginRequest struct {
	CIN      string `json:"cin"      validate:"required,len=8,numeric"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success  bool             `json:"success"`
	Identity *domain.Identity `json:"identity,omitempty"`
	Message  string           `json:"message,omitempty"`
}

type restoreResponse struct {
	Restored bool             `json:"restored"`
	State    domain.AuthState `json:"state"`
}

// State returns the current auth state.
//
// @Summary      Current auth state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.AuthState
// @Router       /api/v1/auth/state [get]
func (h *AuthHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ctrl.State())
}

// Login signs a staff member in at this station.
//
// @Summary      Staff login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "CIN and password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  loginResponse
// @Failure      502   {object}  loginResponse
// @Failure      503   {object}  loginResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res := h.ctrl.Login(c.Request().Context(), req.CIN, req.Password)
	if res.Success {
		return c.JSON(http.StatusOK, loginResponse{Success: true, Identity: res.Identity})
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(res.Err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(res.Err, domain.ErrTransientNetwork):
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, loginResponse{Message: res.Message})
}

// Logout signs the current staff member out. Always succeeds.
//
// @Summary      Staff logout
// @Tags         auth
// @Success      204
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.ctrl.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Restore re-runs the startup session check, e.g. after connectivity returns.
//
// @Summary      Retry session restore
// @Tags         auth
// @Produce      json
// @Success      200  {object}  restoreResponse
// @Router       /api/v1/auth/restore [post]
func (h *AuthHandler) Restore(c echo.Context) error {
	ok := h.ctrl.RestoreSession(c.Request().Context())
	return c.JSON(http.StatusOK, restoreResponse{Restored: ok, State: h.ctrl.State()})
}
