package prompts

type PromptName string

const (
	// Analysis
	PromptContentAnalysis PromptName = "content_analysis"
	PromptConceptGraph    PromptName = "concept_graph"

	// Narration
	PromptNarration PromptName = "narration"

	// Assembly
	PromptSceneHTML PromptName = "scene_html"
)
