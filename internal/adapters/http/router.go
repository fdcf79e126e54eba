package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/handlers"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/middleware"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests unless RouterConfig says otherwise.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig is everything SetupRouter wires onto the engine.
type RouterConfig struct {
	Logger     *slog.Logger
	AuthConfig *config.AuthConfig
	AppConfig  *config.AppConfig

	// DefaultWorkspace holds the state of requests without a subject header.
	DefaultWorkspace string

	// HealthHandler serves /-/. Optional.
	HealthHandler *handlers.HealthHandler

	// Handlers are mounted under /api/v1.
	Handlers []handlers.RouteRegistrar

	// Timeout is the deadline of API requests. Zero means none.
	Timeout time.Duration
}

// NewDefaultRouterConfig returns a config with the shared default workspace
// and DefaultRequestTimeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
	routes ...handlers.RouteRegistrar,
) RouterConfig {
	return RouterConfig{
		Logger:           logger,
		AuthConfig:       authCfg,
		AppConfig:        appCfg,
		DefaultWorkspace: config.DefaultWorkspace,
		HealthHandler:    healthHandler,
		Handlers:         routes,
		Timeout:          DefaultRequestTimeout,
	}
}

// SetupRouter installs the middleware chain and every route on engine.
//
// All routes get panic recovery, request and correlation ids, tracing,
// metrics and access logs, in that order. Routes under /api/v1 also resolve
// the caller's workspace and run under the request timeout; the /-/ probes
// do neither. Unknown routes and methods answer with the error envelope.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Tracing(cfg.AppConfig.Name, otel.GetTracerProvider())...)
	engine.Use(
		telemetry.RequestMetrics(otel.GetMeterProvider()),
		middleware.Logging(cfg.Logger),
	)

	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.URL.Path)
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed,
			dto.NewErrorResponse(dto.ErrorCodeBadRequest, c.Request.Method+" is not supported on "+c.Request.URL.Path).
				WithTraceID(dto.GetTraceID(c)))
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api/v1", middleware.Workspace(cfg.AuthConfig, cfg.DefaultWorkspace), middleware.Timeout(cfg.Timeout))
	for _, h := range cfg.Handlers {
		h.RegisterRoutes(api)
	}
}
