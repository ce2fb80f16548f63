// Package pipeline runs uploads through the generation stages and
// produces the final HTML artifact. It owns stage ordering, progress
// publishing, history records and error classification; the stage
// implementations live in their own packages.
package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/sceneforge-backend/internal/clients/redis"
	"github.com/yungbote/sceneforge-backend/internal/platform/apierr"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/platform/neo4jdb"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/assemble"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/catalog"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/document"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/graphsink"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/history"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/narration"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/preview"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/storage"
)

// Generation modes recorded in history rows and progress events.
const (
	ModeDocument = "document"
	ModeConcepts = "concepts"
)

// Upload is the raw file handed to a generation run. Data is the full
// body; validation happens inside the pipeline so every caller gets
// the same error surface.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Options tunes a single document run.
type Options struct {
	// MaxModels caps how many matched assets enter the scene. Zero
	// means the configured default.
	MaxModels int
}

// Result is a finished generation.
type Result struct {
	HTML       string
	Filename   string
	Title      string
	PreviewURL string
}

// Deps wires the pipeline. History, Graph and Progress may be nil;
// those steps are skipped.
type Deps struct {
	Log       *logger.Logger
	Config    config.PipelineConfig
	Extractor *document.Extractor
	Analyzer  *analysis.Analyzer
	Catalog   *catalog.Cache
	Narrator  *narration.Generator
	Synth     *narration.Synthesizer
	Assembler *assemble.Assembler
	Store     storage.Store
	Previews  *preview.Renderer
	History   history.Store
	Graph     *neo4jdb.Client
	Progress  *redis.Publisher
}

// Service coordinates generation runs.
type Service struct {
	log       *logger.Logger
	cfg       config.PipelineConfig
	extractor *document.Extractor
	analyzer  *analysis.Analyzer
	catalog   *catalog.Cache
	narrator  *narration.Generator
	synth     *narration.Synthesizer
	assembler *assemble.Assembler
	store     storage.Store
	previews  *preview.Renderer
	history   history.Store
	graph     *neo4jdb.Client
	progress  *redis.Publisher
}

func NewService(d Deps) *Service {
	return &Service{
		log:       d.Log.With("service", "Pipeline"),
		cfg:       d.Config,
		extractor: d.Extractor,
		analyzer:  d.Analyzer,
		catalog:   d.Catalog,
		narrator:  d.Narrator,
		synth:     d.Synth,
		assembler: d.Assembler,
		store:     d.Store,
		previews:  d.Previews,
		history:   d.History,
		graph:     d.Graph,
		progress:  d.Progress,
	}
}

// GenerateFromDocument builds an asset-catalog scene from an upload.
// The returned error is always an *apierr.Error.
func (s *Service) GenerateFromDocument(ctx context.Context, up Upload, opts Options) (*Result, error) {
	sceneID := uuid.NewString()
	gen := &history.Generation{Mode: ModeDocument}
	track := s.newTracker(sceneID, ModeDocument, plans.Document)
	started := time.Now()

	res, err := s.runDocument(ctx, track, up, opts, gen)
	gen.DurationMS = time.Since(started).Milliseconds()
	if err != nil {
		track.abort(ctx, err)
		gen.Status = history.StatusFailed
		gen.ErrorCode = errorCode(err)
		s.record(ctx, gen)
		s.log.Warn("Generation failed", "scene_id", sceneID, "mode", ModeDocument, "error", err)
		return nil, err
	}
	gen.Status = history.StatusCompleted
	s.record(ctx, gen)
	s.log.Info("Generation complete",
		"scene_id", sceneID,
		"mode", ModeDocument,
		"title", res.Title,
		"duration_ms", gen.DurationMS)
	return res, nil
}

func (s *Service) runDocument(ctx context.Context, track *tracker, up Upload, opts Options, gen *history.Generation) (*Result, error) {
	track.start(ctx, "validate")
	if err := s.extractor.Validate(up.Name, up.ContentType, int64(len(up.Data))); err != nil {
		return nil, classifyDocumentError(err)
	}
	track.done(ctx, "validate")

	track.start(ctx, "extract")
	text, err := s.extractor.Extract(up.Name, up.ContentType, up.Data)
	if err != nil {
		return nil, classifyDocumentError(err)
	}
	track.done(ctx, "extract")

	sctx := track.start(ctx, "analyze")
	an, err := s.analyzer.Analyze(sctx, text)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, CodeAnalysisFailed, err)
	}
	track.done(ctx, "analyze")

	gen.Title = an.Title
	gen.SubjectArea = an.SubjectArea
	gen.Difficulty = an.DifficultyLevel
	gen.Topics = history.TopicsJSON(an.MainTopics)

	sctx = track.start(ctx, "match")
	entries, err := s.catalog.Entries(sctx)
	if err != nil {
		return nil, apierr.Newf(http.StatusServiceUnavailable, CodeManifestUnavailable,
			"Failed to fetch model manifest")
	}
	limit := s.cfg.MaxMatches
	if opts.MaxModels > 0 {
		limit = opts.MaxModels
	}
	matches := catalog.Rank(entries, an, limit)
	if len(matches) == 0 {
		return nil, apierr.Newf(http.StatusUnprocessableEntity, CodeNoMatchingModels,
			"No matching 3D models found for document content")
	}
	track.done(ctx, "match")
	gen.AssetCount = len(matches)

	sctx = track.start(ctx, "narrate")
	items := make([]narration.Item, len(matches))
	for i, m := range matches {
		items[i] = narration.Item{ID: m.ID, Name: m.Name, Description: m.Description}
	}
	narrations := s.narrator.Generate(sctx, items, an.Title)
	track.done(ctx, "narrate")

	sctx = track.start(ctx, "synthesize")
	audio := s.synth.Synthesize(sctx, narrations)
	track.done(ctx, "synthesize")
	gen.AudioCount = len(audio.URLs)

	sctx = track.start(ctx, "assemble")
	html, err := s.assembler.BuildHTML(sctx, an, matches, narrations, audio.URLs)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, CodeHTMLGenerationFailed, err)
	}
	html = assemble.EmbedAudio(html, audio.URLs, audio.Base64)
	track.done(ctx, "assemble")

	res := &Result{
		HTML:     html,
		Filename: assemble.Filename(an.Title),
		Title:    an.Title,
	}
	nodes, edges := preview.FromMatches(matches, an.VisualTheme.PrimaryColor)
	res.PreviewURL = s.savePreview(ctx, track.sceneID, an.Title, nodes, edges)
	gen.Filename = res.Filename
	gen.PreviewURL = res.PreviewURL
	return res, nil
}

// GenerateFromConcepts builds a concept-graph scene from an upload.
// The returned error is always an *apierr.Error.
func (s *Service) GenerateFromConcepts(ctx context.Context, up Upload) (*Result, error) {
	sceneID := uuid.NewString()
	gen := &history.Generation{Mode: ModeConcepts}
	track := s.newTracker(sceneID, ModeConcepts, plans.Concepts)
	started := time.Now()

	res, err := s.runConcepts(ctx, track, up, gen)
	gen.DurationMS = time.Since(started).Milliseconds()
	if err != nil {
		track.abort(ctx, err)
		gen.Status = history.StatusFailed
		gen.ErrorCode = errorCode(err)
		s.record(ctx, gen)
		s.log.Warn("Generation failed", "scene_id", sceneID, "mode", ModeConcepts, "error", err)
		return nil, err
	}
	gen.Status = history.StatusCompleted
	s.record(ctx, gen)
	s.log.Info("Generation complete",
		"scene_id", sceneID,
		"mode", ModeConcepts,
		"title", res.Title,
		"duration_ms", gen.DurationMS)
	return res, nil
}

func (s *Service) runConcepts(ctx context.Context, track *tracker, up Upload, gen *history.Generation) (*Result, error) {
	track.start(ctx, "validate")
	if err := s.extractor.Validate(up.Name, up.ContentType, int64(len(up.Data))); err != nil {
		return nil, classifyDocumentError(err)
	}
	track.done(ctx, "validate")

	track.start(ctx, "extract")
	text, err := s.extractor.Extract(up.Name, up.ContentType, up.Data)
	if err != nil {
		return nil, classifyDocumentError(err)
	}
	track.done(ctx, "extract")

	sctx := track.start(ctx, "extract_graph")
	g, err := s.analyzer.ExtractGraph(sctx, text)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, CodeConceptExtractionFailed, err)
	}
	track.done(ctx, "extract_graph")

	gen.Title = g.Title
	gen.SubjectArea = g.SubjectArea
	topics := make([]string, 0, len(g.Categories))
	for _, c := range g.Categories {
		topics = append(topics, c.Name)
	}
	gen.Topics = history.TopicsJSON(topics)
	gen.AssetCount = len(g.Concepts)

	// Concept descriptions double as the narration script, so the
	// spoken audio matches the info panel word for word.
	sctx = track.start(ctx, "synthesize")
	narrations := make(map[string]string, len(g.Concepts))
	for _, c := range g.Concepts {
		narrations[c.ID] = c.Description
	}
	audio := s.synth.Synthesize(sctx, narrations)
	track.done(ctx, "synthesize")
	gen.AudioCount = len(audio.URLs)

	track.start(ctx, "assemble")
	html, err := assemble.BuildConceptHTML(g, audio.Base64)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, CodeHTMLGenerationFailed, err)
	}
	track.done(ctx, "assemble")

	if err := graphsink.Archive(ctx, s.graph, s.log, track.sceneID, g); err != nil {
		s.log.Warn("Concept graph archive failed", "scene_id", track.sceneID, "error", err)
	}

	res := &Result{
		HTML:     html,
		Filename: assemble.Filename(g.Title),
		Title:    g.Title,
	}
	nodes, edges := assemble.Layout(g)
	res.PreviewURL = s.savePreview(ctx, track.sceneID, g.Title, nodes, edges)
	gen.Filename = res.Filename
	gen.PreviewURL = res.PreviewURL
	return res, nil
}

// Models returns the asset catalog for the listing endpoint.
func (s *Service) Models(ctx context.Context) ([]catalog.Entry, error) {
	entries, err := s.catalog.Entries(ctx)
	if err != nil {
		return nil, apierr.Newf(http.StatusServiceUnavailable, CodeManifestUnavailable,
			"Failed to fetch model manifest")
	}
	return entries, nil
}

// Recent returns the newest generation records, newest first. Without
// a history store it returns an empty list.
func (s *Service) Recent(ctx context.Context, limit int) ([]history.Generation, error) {
	if s.history == nil {
		return []history.Generation{}, nil
	}
	return s.history.Recent(ctx, limit)
}

// Healthy reports whether backing storage is reachable.
func (s *Service) Healthy(ctx context.Context) bool {
	return s.store == nil || s.store.Healthy(ctx)
}

// savePreview renders and stores the poster image. Preview failures
// never fail the run.
func (s *Service) savePreview(ctx context.Context, sceneID, title string, nodes []assemble.PlacedNode, edges []assemble.PlacedEdge) string {
	if s.previews == nil || s.store == nil {
		return ""
	}
	png, err := s.previews.Render(title, nodes, edges)
	if err != nil {
		s.log.Warn("Preview render failed", "scene_id", sceneID, "error", err)
		return ""
	}
	url, err := s.store.SavePreview(ctx, sceneID+".png", png)
	if err != nil {
		s.log.Warn("Preview upload failed", "scene_id", sceneID, "error", err)
		return ""
	}
	return url
}

func (s *Service) record(ctx context.Context, gen *history.Generation) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, gen); err != nil {
		s.log.Warn("History record failed", "error", err)
	}
}
