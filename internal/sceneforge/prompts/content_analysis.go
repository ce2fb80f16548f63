package prompts

import (
	"fmt"
	"strings"
)

func contentAnalysisSchema() map[string]any {
	return strictObject(map[string]any{
		"title":       StringSchema(),
		"main_topics": StringArraySchema(),
		"key_concepts": arrayOf(strictObject(map[string]any{
			"name":        StringSchema(),
			"description": StringSchema(),
			"importance":  IntRangeSchema(1, 5),
		})),
		"subject_area": EnumSchema(
			"biology", "physics", "chemistry", "history", "geography",
			"astronomy", "anatomy", "engineering", "mathematics", "general",
		),
		"difficulty_level":         EnumSchema("beginner", "intermediate", "advanced"),
		"suggested_model_keywords": StringArraySchema(),
		"visual_theme": strictObject(map[string]any{
			"primary_color": StringSchema(),
			"mood":          EnumSchema("scientific", "playful", "serious", "exploratory"),
		}),
	})
}

func init() {
	RegisterSpec(Spec{
		Name:       PromptContentAnalysis,
		Version:    1,
		SchemaName: "content_analysis",
		Schema:     contentAnalysisSchema,
		System: `You are an educational content analyst. You read study material and
produce a structured summary that drives an interactive 3D scene.
Respond with JSON matching the provided schema. Use only the allowed
values for subject_area, difficulty_level and mood. Keywords in
suggested_model_keywords should be short, concrete nouns that could
match the names of 3D models.`,
		User: `Analyze the following document. Extract:
- a short descriptive title
- the main topics covered
- 5 to 10 key concepts, each with a one or two sentence description and
  an importance from 1 (background detail) to 5 (central idea)
- the subject area and difficulty level
- a visual theme (primary color as a hex string, and a mood)
- keywords that describe physical objects worth showing in 3D

Document:
{{.Document}}`,
		Validators: []Validator{
			func(in Input) error {
				if strings.TrimSpace(in.Document) == "" {
					return fmt.Errorf("empty document")
				}
				return nil
			},
		},
	})
}
