package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/http"
	httpH "github.com/yungbote/sceneforge-backend/internal/http/handlers"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Generate    *httpH.GenerateHandler
	Models      *httpH.ModelsHandler
	Generations *httpH.GenerationsHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(cfg.Version, services.Pipeline, clients.LLM != nil, clients.TTS.Enabled()),
		Generate:    httpH.NewGenerateHandler(log, services.Pipeline, cfg.HTTP.MaxUploadBytes),
		Models:      httpH.NewModelsHandler(log, services.Pipeline),
		Generations: httpH.NewGenerationsHandler(log, services.Pipeline),
	}
}

func wireRouter(log *logger.Logger, cfg *config.Config, handlers Handlers) *gin.Engine {
	staticDir := ""
	if cfg.Storage.Mode == "local" {
		staticDir = cfg.Storage.LocalRoot
	}
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		StaticDir:      staticDir,
		Health:         handlers.Health,
		Generate:       handlers.Generate,
		Models:         handlers.Models,
		Generations:    handlers.Generations,
	})
}
