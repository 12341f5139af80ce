// Package authsim is a local stand-in for the remote staff authentication
// service. It speaks the same wire format the station client expects, so a
// kiosk can be exercised end to end without the real backend.
package authsim

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

type Handler struct {
	svc ports.StaffAuthService
	log zerolog.Logger
}

func NewHandler(svc ports.StaffAuthService, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type loginRequest struct {
	CIN      string `json:"cin"      validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the envelope of every auth endpoint.
type authResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token,omitempty"`
	Staff   *domain.Identity `json:"staff,omitempty"`
	Message string           `json:"message,omitempty"`
}

func failure(c echo.Context, status int, msg string) error {
	return c.JSON(status, authResponse{Success: false, Message: msg})
}

// Register creates a staff account.
//
// @Summary      Register staff
// @Tags         authsim
// @Accept       json
// @Produce      json
// @Param        body  body      ports.RegisterStaffInput  true  "Staff details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      409   {object}  authResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req ports.RegisterStaffInput
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid payload")
	}

	account, err := h.svc.Register(c.Request().Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStaffExists):
		return failure(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return failure(c, http.StatusBadRequest, err.Error())
	default:
		return err
	}

	h.log.Info().Str("cin", account.CIN).Str("role", string(account.Role)).Msg("staff registered")
	return c.JSON(http.StatusCreated, authResponse{Success: true, Staff: &account.Identity})
}

// Login checks CIN and password and issues a token.
//
// @Summary      Staff login
// @Tags         authsim
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return failure(c, http.StatusBadRequest, err.Error())
	}

	token, account, err := h.svc.Login(c.Request().Context(), req.CIN, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return failure(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, Token: token, Staff: &account.Identity})
}

// Verify confirms the bearer token and returns the current profile.
//
// @Summary      Verify token
// @Tags         authsim
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Router       /auth/verify [get]
func (h *Handler) Verify(c echo.Context) error {
	account, ok := c.Get(ctxStaff).(*domain.StaffAccount)
	if !ok {
		return failure(c, http.StatusUnauthorized, "missing authentication")
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, Staff: &account.Identity})
}

// Logout revokes the bearer token.
//
// @Summary      Staff logout
// @Tags         authsim
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(c echo.Context) error {
	token, _ := c.Get(ctxToken).(string)
	if err := h.svc.Logout(c.Request().Context(), token); err != nil {
		return failure(c, http.StatusUnauthorized, err.Error())
	}
	return c.JSON(http.StatusOK, authResponse{Success: true})
}
