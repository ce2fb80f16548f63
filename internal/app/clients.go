package app

import (
	"context"
	"fmt"

	"github.com/yungbote/sceneforge-backend/internal/clients/elevenlabs"
	"github.com/yungbote/sceneforge-backend/internal/clients/openai"
	"github.com/yungbote/sceneforge-backend/internal/clients/redis"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/platform/neo4jdb"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/history"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/storage"
)

type Clients struct {
	LLM      openai.Client
	TTS      *elevenlabs.Client
	Store    storage.Store
	History  history.Store
	Graph    *neo4jdb.Client
	Progress *redis.Publisher
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Openai
	llm, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// ElevenLabs; synthesis stays off without an API key.
	tts := elevenlabs.NewFromEnv(log)
	if !tts.Enabled() {
		log.Info("Text-to-speech disabled; scenes ship without audio")
	}

	// Artifact storage
	store, err := storage.New(ctx, log, cfg.Storage)
	if err != nil {
		return Clients{}, fmt.Errorf("init storage: %w", err)
	}

	// History; generation keeps working when the database is down.
	hist, err := history.Open(log, cfg.History)
	if err != nil {
		log.Warn("History store unavailable", "error", err)
		hist = nil
	}

	// Neo4j
	graph, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init neo4j client: %w", err)
	}

	// Redis
	progress, err := redis.NewFromEnv(log)
	if err != nil {
		_ = graph.Close(ctx)
		return Clients{}, fmt.Errorf("init redis publisher: %w", err)
	}

	return Clients{
		LLM:      llm,
		TTS:      tts,
		Store:    store,
		History:  hist,
		Graph:    graph,
		Progress: progress,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Progress != nil {
		_ = c.Progress.Close()
	}
	if c.Graph != nil {
		_ = c.Graph.Close(context.Background())
	}
}
