package http

import (
	"context"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
)

// Server wraps the engine in an http.Server. No write timeout is set;
// generation requests legitimately run for minutes.
type Server struct {
	log  *logger.Logger
	http *nethttp.Server
}

func NewServer(log *logger.Logger, cfg config.HTTPConfig, engine *gin.Engine) *Server {
	return &Server{
		log: log,
		http: &nethttp.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
			IdleTimeout:       cfg.IdleTimeout.Duration,
		},
	}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
