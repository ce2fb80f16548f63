package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/sceneforge-backend/internal/http/handlers"
	"github.com/yungbote/sceneforge-backend/internal/http/middleware"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string

	// StaticDir serves generated audio and previews at /static in
	// local storage mode. Empty disables the mount.
	StaticDir string

	Health      *handlers.HealthHandler
	Generate    *handlers.GenerateHandler
	Models      *handlers.ModelsHandler
	Generations *handlers.GenerationsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("sceneforge-backend"))
	r.Use(middleware.AttachTraceContext())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.Health != nil {
		r.GET("/", cfg.Health.Root)
	}

	api := r.Group("/api/v1")
	{
		if cfg.Health != nil {
			api.GET("/health", cfg.Health.HealthCheck)
		}
		if cfg.Models != nil {
			api.GET("/models", cfg.Models.List)
		}
		if cfg.Generations != nil {
			api.GET("/generations", cfg.Generations.List)
		}
		if cfg.Generate != nil {
			api.POST("/generate", cfg.Generate.Generate)
			api.POST("/generate-v2", cfg.Generate.GenerateConcepts)
		}
	}

	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	return r
}
