package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/sceneforge-backend/internal/clients/openai"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/prompts"
)

// Analyzer turns extracted document text into structured scene inputs.
type Analyzer struct {
	llm       openai.Client
	log       *logger.Logger
	charLimit int
}

func NewAnalyzer(log *logger.Logger, llm openai.Client, charLimit int) *Analyzer {
	if charLimit <= 0 {
		charLimit = 15000
	}
	return &Analyzer{
		llm:       llm,
		log:       log.With("service", "Analyzer"),
		charLimit: charLimit,
	}
}

// Analyze produces a ContentAnalysis for asset-catalog scenes.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*ContentAnalysis, error) {
	out := &ContentAnalysis{}
	if err := a.run(ctx, prompts.PromptContentAnalysis, text, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractGraph produces a ConceptGraph for template-rendered scenes.
func (a *Analyzer) ExtractGraph(ctx context.Context, text string) (*ConceptGraph, error) {
	out := &ConceptGraph{}
	if err := a.run(ctx, prompts.PromptConceptGraph, text, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Analyzer) run(ctx context.Context, name prompts.PromptName, text string, out any) error {
	if a.llm == nil {
		return fmt.Errorf("llm client not configured")
	}
	p, err := prompts.Build(name, prompts.Input{Document: a.truncate(text)})
	if err != nil {
		return err
	}
	raw, err := a.llm.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-encode model output: %w", err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

// truncate caps the document at charLimit runes. Anything past the cap
// contributes nothing to a summary-level analysis.
func (a *Analyzer) truncate(text string) string {
	if len(text) <= a.charLimit {
		return text
	}
	r := []rune(text)
	if len(r) <= a.charLimit {
		return text
	}
	a.log.Info("Truncating document for analysis", "chars", len(r), "limit", a.charLimit)
	return string(r[:a.charLimit])
}
