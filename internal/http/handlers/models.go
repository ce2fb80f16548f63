package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/http/response"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

type ModelsHandler struct {
	log *logger.Logger
	svc Generator
}

func NewModelsHandler(log *logger.Logger, svc Generator) *ModelsHandler {
	return &ModelsHandler{
		log: log.With("handler", "Models"),
		svc: svc,
	}
}

// GET /api/v1/models
func (h *ModelsHandler) List(c *gin.Context) {
	entries, err := h.svc.Models(c.Request.Context())
	if err != nil {
		h.log.Error("Model listing failed", "error", err)
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}
