package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/http"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/platform/observability"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Clients  Clients
	Services Services
	Router   *gin.Engine

	server      *http.Server
	stopTracing func(context.Context) error
}

// New wires the whole service: config, logger, tracing, clients,
// pipeline and router. Optional collaborators that are not configured
// come back nil and the pipeline skips them.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	stopTracing := observability.Init(ctx, log, observability.Config{
		ServiceName: "sceneforge-backend",
		Environment: cfg.Env,
		Version:     cfg.Version,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	services, err := wireServices(log, cfg, clients)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	handlers := wireHandlers(log, cfg, clients, services)
	router := wireRouter(log, cfg, handlers)

	return &App{
		Log:         log,
		Cfg:         cfg,
		Clients:     clients,
		Services:    services,
		Router:      router,
		server:      http.NewServer(log, cfg.HTTP, router),
		stopTracing: stopTracing,
	}, nil
}

// Run serves HTTP until the listener fails or ctx is cancelled, then
// drains in-flight requests within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down...")
	shCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.HTTP.ShutdownTimeout.Duration)
	defer cancel()
	if err := a.server.Shutdown(shCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.stopTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.HTTP.ShutdownTimeout.Duration)
		if err := a.stopTracing(ctx); err != nil {
			a.Log.Warn("Tracing shutdown failed", "error", err)
		}
		cancel()
		a.stopTracing = nil
	}
	a.Clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
