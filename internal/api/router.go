package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shopadmin/backoffice/docs"
	"github.com/shopadmin/backoffice/internal/api/handler"
	"github.com/shopadmin/backoffice/internal/api/middleware"
	"github.com/shopadmin/backoffice/internal/core/ports"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Auth     ports.AuthService
	Roles    ports.RoleService
	Verifier ports.TokenVerifier
	Health   map[string]handler.Pinger
	Log      zerolog.Logger

	// Registerer and Gatherer default to the global prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Auth)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	healthHandler := handler.NewHealthHandler(deps.Health)
	requireAuth := middleware.Auth(deps.Verifier)

	// --- Auth routes ---
	e.POST("/signup", authHandler.SignUp)
	e.POST("/login", authHandler.LogIn)

	// --- Authenticated routes ---
	e.GET("/roles", roleHandler.List, requireAuth)

	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List, middleware.RequireAdmin())
	users.GET("/:userId", userHandler.Get)
	users.DELETE("/:userId", userHandler.Delete)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
