package app

import (
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/assemble"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/catalog"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/document"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/narration"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/pipeline"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/preview"
)

type Services struct {
	Pipeline *pipeline.Service
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	extractor := document.NewExtractor(log, cfg.HTTP.MaxUploadBytes)
	analyzer := analysis.NewAnalyzer(log, clients.LLM, cfg.Pipeline.AnalysisCharLimit)
	cache := catalog.NewCache(log, clients.Store)
	narrator := narration.NewGenerator(log, clients.LLM)
	synth := narration.NewSynthesizer(log, clients.TTS, clients.Store, cfg.Pipeline.AudioConcurrency)
	assembler := assemble.NewAssembler(log, clients.LLM)

	// Preview rendering is decorative; a font or canvas failure must not
	// take the server down.
	previews, err := preview.NewRenderer(log)
	if err != nil {
		log.Warn("Preview renderer unavailable", "error", err)
		previews = nil
	}

	svc := pipeline.NewService(pipeline.Deps{
		Log:       log,
		Config:    cfg.Pipeline,
		Extractor: extractor,
		Analyzer:  analyzer,
		Catalog:   cache,
		Narrator:  narrator,
		Synth:     synth,
		Assembler: assembler,
		Store:     clients.Store,
		Previews:  previews,
		History:   clients.History,
		Graph:     clients.Graph,
		Progress:  clients.Progress,
	})

	return Services{Pipeline: svc}, nil
}
