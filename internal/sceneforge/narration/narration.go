package narration

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/sceneforge-backend/internal/clients/openai"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/prompts"
)

// Item is one narration target.
type Item struct {
	ID          string
	Name        string
	Description string
}

// Fallback is the deterministic narration used when generation fails
// for an item.
func Fallback(name string) string {
	return fmt.Sprintf(
		"This %s represents a key concept from your document. Click to explore and learn more about %s.",
		name, strings.ToLower(name),
	)
}

// Generator produces narration text per item.
type Generator struct {
	llm openai.Client
	log *logger.Logger
}

func NewGenerator(log *logger.Logger, llm openai.Client) *Generator {
	return &Generator{
		llm: llm,
		log: log.With("service", "Narration"),
	}
}

// Generate returns one narration per item, keyed by item id. A failed
// or empty generation falls back to the templated string, so the map
// is always complete.
func (g *Generator) Generate(ctx context.Context, items []Item, docTitle string) map[string]string {
	out := make(map[string]string, len(items))
	for _, it := range items {
		text, err := g.generateOne(ctx, it, docTitle)
		if err != nil || strings.TrimSpace(text) == "" {
			if err != nil {
				g.log.Warn("Narration generation failed, using fallback", "item_id", it.ID, "error", err)
			}
			out[it.ID] = Fallback(it.Name)
			continue
		}
		out[it.ID] = strings.TrimSpace(text)
	}
	g.log.Info("Narrations complete", "count", len(out))
	return out
}

func (g *Generator) generateOne(ctx context.Context, it Item, docTitle string) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("llm client not configured")
	}
	p, err := prompts.Build(prompts.PromptNarration, prompts.Input{
		Title:           docTitle,
		ItemName:        it.Name,
		ItemDescription: it.Description,
	})
	if err != nil {
		return "", err
	}
	return g.llm.GenerateText(ctx, p.System, p.User)
}
