package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/finance/bff-web/docs"
	"github.com/finance/bff-web/internal/api/handler"
	"github.com/finance/bff-web/internal/api/middleware"
	"github.com/finance/bff-web/internal/core/domain"
	"github.com/finance/bff-web/internal/core/ports"
	"github.com/finance/bff-web/internal/pkg/metrics"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Auth    ports.AuthService
	Summary ports.SummaryService
	Log     zerolog.Logger

	// Readiness checks run by GET /health/ready, keyed by dependency name.
	Readiness map[string]handler.PingFunc

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// AccessPolicy is the route access table. Anything not listed requires an
// authenticated principal.
var AccessPolicy = middleware.Policy{
	{Prefix: "/auth/login", Access: middleware.Public},
	{Prefix: "/health", Access: middleware.Public},
	{Prefix: "/metrics", Access: middleware.Public},
	{Prefix: "/swagger/", Access: middleware.Public},
	{Prefix: "/bff/web/v1/", Access: middleware.Role(domain.RoleWebClient)},
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metrics.Subsystem,
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Authenticate(deps.Auth))
	e.Use(middleware.Authorize(AccessPolicy))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	summaryHandler := handler.NewSummaryHandler(deps.Summary)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- Web client routes ---
	web := e.Group("/bff/web/v1")
	web.GET("/accounts/:id", summaryHandler.GetAccountSummary)

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
