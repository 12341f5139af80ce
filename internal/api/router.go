package api

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/louagetn/station-client/docs"
	"github.com/louagetn/station-client/internal/api/handler"
	"github.com/louagetn/station-client/internal/api/middleware"
	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
	"github.com/louagetn/station-client/internal/pkg/validate"
)

// Deps are the collaborators the local API serves.
type Deps struct {
	Controller ports.AuthController
	Sessions   handler.SessionInfoReader
	Store      ports.KVStore
}

var (
	requestMetricsOnce sync.Once
	requestMetrics     echo.MiddlewareFunc
)

// requestMetricsMiddleware registers the HTTP collectors once per process.
func requestMetricsMiddleware() echo.MiddlewareFunc {
	requestMetricsOnce.Do(func() {
		requestMetrics = echoprometheus.NewMiddleware("station_api")
	})
	return requestMetrics
}

// NewRouter builds the kiosk-facing API. It is meant to listen on loopback
// only; the UI shell is the sole client.
func NewRouter(deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLog(log))
	e.Use(requestMetricsMiddleware())

	authHandler := handler.NewAuthHandler(deps.Controller)
	sessionHandler := handler.NewSessionHandler(deps.Controller, deps.Sessions)
	healthHandler := handler.NewHealthHandler(deps.Store, deps.Controller)
	requireAuth := middleware.RequireAuthenticated(deps.Controller)

	v1 := e.Group("/api/v1")

	v1.GET("/auth/state", authHandler.State)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.POST("/auth/restore", authHandler.Restore)

	v1.GET("/session/info", sessionHandler.Info)
	v1.POST("/session/refresh", sessionHandler.Refresh, requireAuth)
	v1.DELETE("/session", sessionHandler.Reset, requireAuth,
		middleware.RequireRole(domain.RoleSupervisor, domain.RoleAdmin))

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
