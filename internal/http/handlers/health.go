package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version string
	svc     Generator
	llm     bool
	tts     bool
}

func NewHealthHandler(version string, svc Generator, llmConfigured, ttsConfigured bool) *HealthHandler {
	return &HealthHandler{
		version: version,
		svc:     svc,
		llm:     llmConfigured,
		tts:     ttsConfigured,
	}
}

// GET /api/v1/health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storageOK := h.svc.Healthy(c.Request.Context())
	status := "healthy"
	if !storageOK {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"version": h.version,
		"storage": storageOK,
		"llm":     h.llm,
		"tts":     h.tts,
	})
}

// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "SceneForge API",
		"version": h.version,
		"health":  "/api/v1/health",
	})
}
