package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/http/response"
	"github.com/yungbote/sceneforge-backend/internal/platform/apierr"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

type GenerationsHandler struct {
	log *logger.Logger
	svc Generator
}

func NewGenerationsHandler(log *logger.Logger, svc Generator) *GenerationsHandler {
	return &GenerationsHandler{
		log: log.With("handler", "Generations"),
		svc: svc,
	}
}

// GET /api/v1/generations?limit=N
func (h *GenerationsHandler) List(c *gin.Context) {
	limit := 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.Error(c, apierr.Newf(http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer"))
			return
		}
		limit = n
	}
	rows, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("History listing failed", "error", err)
		response.Error(c, apierr.New(http.StatusInternalServerError, "HISTORY_UNAVAILABLE", err))
		return
	}
	response.OK(c, rows)
}
