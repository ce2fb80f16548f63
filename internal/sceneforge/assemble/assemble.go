// Package assemble turns analysis output into the final self-contained
// HTML artifact: model-generated scenes for the asset catalog flow and a
// deterministic template for concept graphs.
package assemble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/sceneforge-backend/internal/clients/openai"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/catalog"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/prompts"
)

// GenerationError marks a failure to produce usable scene HTML.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }

// sceneModel is the per-asset payload handed to the scene prompt. Keys
// stay present even when empty so the model sees a uniform shape.
type sceneModel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	NarrationText string `json:"narration_text"`
	AudioURL      string `json:"audio_url"`
}

type Assembler struct {
	llm openai.Client
	log *logger.Logger
}

func NewAssembler(log *logger.Logger, llm openai.Client) *Assembler {
	return &Assembler{llm: llm, log: log.With("service", "Assembler")}
}

// BuildHTML asks the model for a complete scene document around the
// matched assets and sanitizes the response into standalone HTML.
func (a *Assembler) BuildHTML(ctx context.Context, an *analysis.ContentAnalysis, matches []catalog.Match, narrations, audioURLs map[string]string) (string, error) {
	if a.llm == nil {
		return "", &GenerationError{Reason: "llm client not configured"}
	}

	models := make([]sceneModel, 0, len(matches))
	for _, m := range matches {
		models = append(models, sceneModel{
			ID:            m.ID,
			Name:          m.Name,
			URL:           m.URL,
			Description:   m.Description,
			NarrationText: narrations[m.ID],
			AudioURL:      audioURLs[m.ID],
		})
	}

	// Asset URLs must survive into the document byte for byte so the
	// audio substitution pass can find them; keep & and friends raw.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(models); err != nil {
		return "", &GenerationError{Reason: "encode scene models", Err: err}
	}

	prompt, err := prompts.Build(prompts.PromptSceneHTML, prompts.Input{
		Title:       an.Title,
		SubjectArea: an.SubjectArea,
		Mood:        an.VisualTheme.Mood,
		ThemeColor:  an.VisualTheme.PrimaryColor,
		SceneJSON:   strings.TrimSpace(buf.String()),
	})
	if err != nil {
		return "", &GenerationError{Reason: "build scene prompt", Err: err}
	}

	raw, err := a.llm.GenerateText(ctx, prompt.System, prompt.User)
	if err != nil {
		return "", &GenerationError{Reason: "scene generation request failed", Err: err}
	}

	html, err := a.sanitize(raw)
	if err != nil {
		return "", err
	}

	a.log.Info("Scene HTML generated", "models", len(models), "size_bytes", len(html))
	return html, nil
}
