package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/sceneforge-backend/internal/clients/openai"
	"github.com/yungbote/sceneforge-backend/internal/platform/apierr"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/assemble"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/catalog"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/document"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/history"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/narration"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/preview"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/storage"
)

type fakeLLM struct {
	analysisDoc map[string]any
	graphDoc    map[string]any
	jsonErr     error
	text        string
	textErr     error
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	if f.jsonErr != nil {
		return nil, f.jsonErr
	}
	switch schemaName {
	case "content_analysis":
		return f.analysisDoc, nil
	case "concept_graph":
		return f.graphDoc, nil
	}
	return nil, fmt.Errorf("unexpected schema %q", schemaName)
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

type fakeSource struct {
	manifest []byte
	err      error
}

func (f *fakeSource) LoadManifest(ctx context.Context) ([]byte, error) {
	return f.manifest, f.err
}

type fakeHistory struct {
	rows []history.Generation
	err  error
}

func (f *fakeHistory) Record(ctx context.Context, g *history.Generation) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *g)
	return nil
}

func (f *fakeHistory) Recent(ctx context.Context, limit int) ([]history.Generation, error) {
	return f.rows, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestService(t *testing.T, root string, llm openai.Client, src catalog.Source, hist history.Store) *Service {
	t.Helper()
	log := testLogger(t)
	store, err := storage.NewLocal(log, root, "")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	prev, err := preview.NewRenderer(log)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return NewService(Deps{
		Log:       log,
		Config:    config.PipelineConfig{AnalysisCharLimit: 15000, MaxMatches: 5, AudioConcurrency: 1},
		Extractor: document.NewExtractor(log, 10<<20),
		Analyzer:  analysis.NewAnalyzer(log, llm, 15000),
		Catalog:   catalog.NewCache(log, src),
		Narrator:  narration.NewGenerator(log, llm),
		Synth:     narration.NewSynthesizer(log, nil, store, 1),
		Assembler: assemble.NewAssembler(log, llm),
		Store:     store,
		Previews:  prev,
		History:   hist,
	})
}

func analysisDoc() map[string]any {
	return map[string]any{
		"title":       "The Human Heart",
		"main_topics": []any{"Circulation", "Cardiac Anatomy"},
		"key_concepts": []any{
			map[string]any{"name": "Heart", "description": "Pumps blood through the body.", "importance": 5},
			map[string]any{"name": "Valves", "description": "Keep blood moving one way.", "importance": 4},
		},
		"subject_area":             "anatomy",
		"difficulty_level":         "intermediate",
		"suggested_model_keywords": []any{"heart", "anatomy"},
		"visual_theme":             map[string]any{"primary_color": "#ff4455", "mood": "scientific"},
	}
}

func graphDoc() map[string]any {
	return map[string]any{
		"title":              "Water Cycle",
		"summary":            "How water moves between sky and land.",
		"subject_area":       "geography",
		"layout_type":        "concept-map",
		"central_concept_id": "evaporation",
		"concepts": []any{
			map[string]any{"id": "evaporation", "name": "Evaporation", "description": "Water rises as vapor.", "category_id": "stages", "importance": 5, "shape": "sphere"},
			map[string]any{"id": "rain", "name": "Rain", "description": "Water falls back down.", "category_id": "stages", "importance": 4, "shape": "cone"},
		},
		"relationships": []any{
			map[string]any{"from_id": "evaporation", "to_id": "rain", "type": "leads_to", "label": "condenses into", "strength": 4},
		},
		"categories": []any{
			map[string]any{"id": "stages", "name": "Stages", "color": "#44aaff"},
		},
		"suggested_exploration_order": []any{"evaporation", "rain"},
	}
}

const manifestJSON = `{
  "models": [
    {"id": "heart-01", "url": "https://cdn.example.com/models/heart.glb", "name": "Human Heart", "keywords": ["heart", "anatomy"], "category": "anatomy", "description": "Anatomical heart with chambers"},
    {"id": "skeleton-01", "url": "https://cdn.example.com/models/skeleton.glb", "name": "Skeleton", "keywords": ["anatomy", "bones"], "category": "anatomy", "description": "Full skeleton"},
    {"id": "volcano-01", "url": "https://cdn.example.com/models/volcano.glb", "name": "Volcano", "keywords": ["lava", "eruption"], "category": "geography", "description": "Erupting volcano"}
  ]
}`

const htmlReply = "```html\n<!DOCTYPE html>\n<html>\n<head><title>Scene</title></head>\n<body>\n<script>init();</script>\n</body>\n</html>\n```"

func textUpload(body string) Upload {
	return Upload{Name: "notes.txt", ContentType: "text/plain", Data: []byte(body)}
}

func wantAPIError(t *testing.T, err error, status int, code string) *apierr.Error {
	t.Helper()
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an API error", err)
	}
	if apiErr.Status != status || apiErr.Code != code {
		t.Fatalf("got status=%d code=%s, want status=%d code=%s", apiErr.Status, apiErr.Code, status, code)
	}
	return apiErr
}

func TestGenerateFromDocumentBuildsScene(t *testing.T) {
	root := t.TempDir()
	llm := &fakeLLM{analysisDoc: analysisDoc(), text: htmlReply}
	hist := &fakeHistory{}
	svc := newTestService(t, root, llm, &fakeSource{manifest: []byte(manifestJSON)}, hist)

	res, err := svc.GenerateFromDocument(context.Background(), textUpload("The heart pumps blood through the body."), Options{})
	if err != nil {
		t.Fatalf("GenerateFromDocument: %v", err)
	}
	if !strings.HasPrefix(res.HTML, "<!DOCTYPE html>") {
		t.Fatalf("HTML does not start with doctype: %q", res.HTML[:40])
	}
	if !strings.HasSuffix(res.HTML, "</html>") {
		t.Fatalf("HTML does not end with closing tag")
	}
	if res.Filename != "The_Human_Heart_3D.html" {
		t.Fatalf("filename = %q", res.Filename)
	}
	if res.Title != "The Human Heart" {
		t.Fatalf("title = %q", res.Title)
	}
	if !strings.HasPrefix(res.PreviewURL, "/static/previews/") || !strings.HasSuffix(res.PreviewURL, ".png") {
		t.Fatalf("preview url = %q", res.PreviewURL)
	}
	posters, err := os.ReadDir(filepath.Join(root, "previews"))
	if err != nil || len(posters) != 1 {
		t.Fatalf("previews on disk = %v (err %v)", posters, err)
	}

	if len(hist.rows) != 1 {
		t.Fatalf("history rows = %d", len(hist.rows))
	}
	row := hist.rows[0]
	if row.Mode != ModeDocument || row.Status != history.StatusCompleted {
		t.Fatalf("row mode=%q status=%q", row.Mode, row.Status)
	}
	if row.AssetCount != 2 || row.AudioCount != 0 {
		t.Fatalf("row assets=%d audio=%d", row.AssetCount, row.AudioCount)
	}
	if row.ErrorCode != "" {
		t.Fatalf("completed row carries error code %q", row.ErrorCode)
	}
	var topics []string
	if err := json.Unmarshal(row.Topics, &topics); err != nil || len(topics) != 2 || topics[0] != "Circulation" {
		t.Fatalf("row topics = %s (err %v)", row.Topics, err)
	}
}

func TestGenerateFromDocumentHonorsMaxModels(t *testing.T) {
	llm := &fakeLLM{analysisDoc: analysisDoc(), text: htmlReply}
	hist := &fakeHistory{}
	svc := newTestService(t, t.TempDir(), llm, &fakeSource{manifest: []byte(manifestJSON)}, hist)

	if _, err := svc.GenerateFromDocument(context.Background(), textUpload("heart"), Options{MaxModels: 1}); err != nil {
		t.Fatalf("GenerateFromDocument: %v", err)
	}
	if hist.rows[0].AssetCount != 1 {
		t.Fatalf("asset count = %d, want 1", hist.rows[0].AssetCount)
	}
}

func TestGenerateFromDocumentRejectsUnsupportedType(t *testing.T) {
	hist := &fakeHistory{}
	svc := newTestService(t, t.TempDir(), &fakeLLM{}, &fakeSource{manifest: []byte(manifestJSON)}, hist)

	up := Upload{Name: "chart.gif", ContentType: "image/gif", Data: []byte("GIF89a")}
	_, err := svc.GenerateFromDocument(context.Background(), up, Options{})
	apiErr := wantAPIError(t, err, 400, CodeUnsupportedFileType)
	if apiErr.Detail() != "Unsupported file type: image/gif" {
		t.Fatalf("detail = %q", apiErr.Detail())
	}
	if len(hist.rows) != 1 || hist.rows[0].Status != history.StatusFailed || hist.rows[0].ErrorCode != CodeUnsupportedFileType {
		t.Fatalf("failed row not recorded: %+v", hist.rows)
	}
}

func TestGenerateFromDocumentRejectsEmptyDocument(t *testing.T) {
	svc := newTestService(t, t.TempDir(), &fakeLLM{}, &fakeSource{manifest: []byte(manifestJSON)}, nil)

	_, err := svc.GenerateFromDocument(context.Background(), textUpload("   \n\t  "), Options{})
	apiErr := wantAPIError(t, err, 422, CodeEmptyDocument)
	if apiErr.Detail() != "No text content found in document" {
		t.Fatalf("detail = %q", apiErr.Detail())
	}
}

func TestGenerateFromDocumentMapsAnalysisFailure(t *testing.T) {
	hist := &fakeHistory{}
	llm := &fakeLLM{jsonErr: errors.New("model offline")}
	svc := newTestService(t, t.TempDir(), llm, &fakeSource{manifest: []byte(manifestJSON)}, hist)

	_, err := svc.GenerateFromDocument(context.Background(), textUpload("heart"), Options{})
	apiErr := wantAPIError(t, err, 500, CodeAnalysisFailed)
	if apiErr.Detail() != "model offline" {
		t.Fatalf("detail = %q", apiErr.Detail())
	}
	if hist.rows[0].ErrorCode != CodeAnalysisFailed {
		t.Fatalf("row error code = %q", hist.rows[0].ErrorCode)
	}
}

func TestGenerateFromDocumentMapsManifestFailure(t *testing.T) {
	llm := &fakeLLM{analysisDoc: analysisDoc()}
	svc := newTestService(t, t.TempDir(), llm, &fakeSource{err: errors.New("bucket gone")}, nil)

	_, err := svc.GenerateFromDocument(context.Background(), textUpload("heart"), Options{})
	apiErr := wantAPIError(t, err, 503, CodeManifestUnavailable)
	if apiErr.Detail() != "Failed to fetch model manifest" {
		t.Fatalf("detail = %q", apiErr.Detail())
	}
}

func TestGenerateFromDocumentMapsNoMatches(t *testing.T) {
	noOverlap := `{"models": [{"id": "volcano-01", "url": "https://cdn.example.com/models/volcano.glb", "name": "Volcano", "keywords": ["lava"], "category": "geography", "description": "Erupting volcano"}]}`
	llm := &fakeLLM{analysisDoc: analysisDoc()}
	svc := newTestService(t, t.TempDir(), llm, &fakeSource{manifest: []byte(noOverlap)}, nil)

	_, err := svc.GenerateFromDocument(context.Background(), textUpload("heart"), Options{})
	apiErr := wantAPIError(t, err, 422, CodeNoMatchingModels)
	if apiErr.Detail() != "No matching 3D models found for document content" {
		t.Fatalf("detail = %q", apiErr.Detail())
	}
}

func TestGenerateFromDocumentMapsSceneFailure(t *testing.T) {
	llm := &fakeLLM{analysisDoc: analysisDoc(), text: "sorry, no markup today"}
	svc := newTestService(t, t.TempDir(), llm, &fakeSource{manifest: []byte(manifestJSON)}, nil)

	_, err := svc.GenerateFromDocument(context.Background(), textUpload("heart"), Options{})
	wantAPIError(t, err, 500, CodeHTMLGenerationFailed)
}

func TestGenerateFromConceptsBuildsScene(t *testing.T) {
	root := t.TempDir()
	llm := &fakeLLM{graphDoc: graphDoc()}
	hist := &fakeHistory{}
	svc := newTestService(t, root, llm, &fakeSource{manifest: []byte(manifestJSON)}, hist)

	res, err := svc.GenerateFromConcepts(context.Background(), textUpload("Water evaporates and falls as rain."))
	if err != nil {
		t.Fatalf("GenerateFromConcepts: %v", err)
	}
	if res.Filename != "Water_Cycle_3D.html" {
		t.Fatalf("filename = %q", res.Filename)
	}
	if !strings.Contains(res.HTML, "Water Cycle") {
		t.Fatalf("HTML missing title")
	}
	if !strings.Contains(res.HTML, `"audio_url":""`) {
		t.Fatalf("HTML missing empty audio url for unsynthesized concepts")
	}

	row := hist.rows[0]
	if row.Mode != ModeConcepts || row.Status != history.StatusCompleted {
		t.Fatalf("row mode=%q status=%q", row.Mode, row.Status)
	}
	if row.AssetCount != 2 {
		t.Fatalf("asset count = %d", row.AssetCount)
	}
	var topics []string
	if err := json.Unmarshal(row.Topics, &topics); err != nil || len(topics) != 1 || topics[0] != "Stages" {
		t.Fatalf("row topics = %s (err %v)", row.Topics, err)
	}
}

func TestGenerateFromConceptsMapsExtractionFailure(t *testing.T) {
	hist := &fakeHistory{}
	llm := &fakeLLM{jsonErr: errors.New("model offline")}
	svc := newTestService(t, t.TempDir(), llm, &fakeSource{manifest: []byte(manifestJSON)}, hist)

	_, err := svc.GenerateFromConcepts(context.Background(), textUpload("water"))
	wantAPIError(t, err, 500, CodeConceptExtractionFailed)
	if hist.rows[0].ErrorCode != CodeConceptExtractionFailed {
		t.Fatalf("row error code = %q", hist.rows[0].ErrorCode)
	}
}

func TestModelsMapsManifestFailure(t *testing.T) {
	svc := newTestService(t, t.TempDir(), &fakeLLM{}, &fakeSource{err: errors.New("bucket gone")}, nil)

	_, err := svc.Models(context.Background())
	wantAPIError(t, err, 503, CodeManifestUnavailable)
}

func TestModelsReturnsCatalog(t *testing.T) {
	svc := newTestService(t, t.TempDir(), &fakeLLM{}, &fakeSource{manifest: []byte(manifestJSON)}, nil)

	entries, err := svc.Models(context.Background())
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(entries) != 3 || entries[0].ID != "heart-01" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestRecentWithoutHistoryStore(t *testing.T) {
	svc := newTestService(t, t.TempDir(), &fakeLLM{}, &fakeSource{manifest: []byte(manifestJSON)}, nil)

	rows, err := svc.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestHealthyTracksManifestPresence(t *testing.T) {
	root := t.TempDir()
	svc := newTestService(t, root, &fakeLLM{}, &fakeSource{manifest: []byte(manifestJSON)}, nil)

	if svc.Healthy(context.Background()) {
		t.Fatalf("healthy without a manifest on disk")
	}
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte(manifestJSON), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if !svc.Healthy(context.Background()) {
		t.Fatalf("unhealthy with manifest present")
	}
}
