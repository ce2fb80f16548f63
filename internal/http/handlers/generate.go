package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/http/response"
	"github.com/yungbote/sceneforge-backend/internal/platform/apierr"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/catalog"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/history"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/pipeline"
)

const uploadField = "file"

// Generator runs the generation pipelines and answers the read
// endpoints. Satisfied by *pipeline.Service.
type Generator interface {
	GenerateFromDocument(ctx context.Context, up pipeline.Upload, opts pipeline.Options) (*pipeline.Result, error)
	GenerateFromConcepts(ctx context.Context, up pipeline.Upload) (*pipeline.Result, error)
	Models(ctx context.Context) ([]catalog.Entry, error)
	Recent(ctx context.Context, limit int) ([]history.Generation, error)
	Healthy(ctx context.Context) bool
}

type GenerateHandler struct {
	log      *logger.Logger
	svc      Generator
	maxBytes int64
}

func NewGenerateHandler(log *logger.Logger, svc Generator, maxBytes int64) *GenerateHandler {
	return &GenerateHandler{
		log:      log.With("handler", "Generate"),
		svc:      svc,
		maxBytes: maxBytes,
	}
}

// POST /api/v1/generate (multipart/form-data, field "file")
func (h *GenerateHandler) Generate(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}
	opts := pipeline.Options{MaxModels: h.maxModels(c)}

	// Runs keep going after a client disconnect so stored audio,
	// previews and history rows are never left half written.
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := h.svc.GenerateFromDocument(ctx, up, opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeArtifact(c, res)
}

// POST /api/v1/generate-v2 (multipart/form-data, field "file")
func (h *GenerateHandler) GenerateConcepts(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := h.svc.GenerateFromConcepts(ctx, up)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeArtifact(c, res)
}

func (h *GenerateHandler) readUpload(c *gin.Context) (pipeline.Upload, bool) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		response.Error(c, apierr.Newf(http.StatusBadRequest, "INVALID_REQUEST", "file field is required"))
		return pipeline.Upload{}, false
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "INVALID_REQUEST", err))
		return pipeline.Upload{}, false
	}
	defer f.Close()

	// One byte past the cap lets the pipeline's size check tell "at
	// the limit" from "over it".
	raw, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "INVALID_REQUEST", err))
		return pipeline.Upload{}, false
	}

	h.log.Info("Upload received",
		"filename", fh.Filename,
		"content_type", fh.Header.Get("Content-Type"),
		"size_bytes", len(raw))
	return pipeline.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        raw,
	}, true
}

// maxModels reads the optional form override. Malformed or
// out-of-range values fall back to the configured default.
func (h *GenerateHandler) maxModels(c *gin.Context) int {
	v := strings.TrimSpace(c.PostForm("max_models"))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 10 {
		h.log.Warn("Ignoring invalid max_models", "value", v)
		return 0
	}
	return n
}

func writeArtifact(c *gin.Context, res *pipeline.Result) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	if res.PreviewURL != "" {
		c.Header("X-Preview-Url", res.PreviewURL)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.HTML))
}
