package analysis

// ContentAnalysis is the structured reading of a document. It drives
// asset matching, narration and the scene build.
type ContentAnalysis struct {
	Title                  string       `json:"title"`
	MainTopics             []string     `json:"main_topics"`
	KeyConcepts            []KeyConcept `json:"key_concepts"`
	SubjectArea            string       `json:"subject_area"`
	DifficultyLevel        string       `json:"difficulty_level"`
	SuggestedModelKeywords []string     `json:"suggested_model_keywords"`
	VisualTheme            VisualTheme  `json:"visual_theme"`
}

type KeyConcept struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Importance  int    `json:"importance"`
}

type VisualTheme struct {
	PrimaryColor string `json:"primary_color"`
	Mood         string `json:"mood"`
}

// ConceptGraph is the model's reading of a document as nodes and
// edges, rendered without a second model call.
type ConceptGraph struct {
	Title                     string           `json:"title"`
	Summary                   string           `json:"summary"`
	SubjectArea               string           `json:"subject_area"`
	LayoutType                string           `json:"layout_type"`
	CentralConceptID          string           `json:"central_concept_id"`
	Concepts                  []Concept        `json:"concepts"`
	Relationships             []Relationship   `json:"relationships"`
	Categories                []Category       `json:"categories"`
	ParticleEffects           *ParticleEffects `json:"particle_effects"`
	SuggestedExplorationOrder []string         `json:"suggested_exploration_order"`
}

type Concept struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	Importance  int    `json:"importance"`
	ParentID    string `json:"parent_id"`
	Shape       string `json:"shape"`
	Color       string `json:"color"`
}

type Relationship struct {
	FromID   string `json:"from_id"`
	ToID     string `json:"to_id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Strength int    `json:"strength"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ParticleEffects struct {
	Description   string   `json:"description"`
	ParticleCount int      `json:"particle_count"`
	Colors        []string `json:"colors"`
	GeneratorCode string   `json:"generator_code"`
	AnimationCode string   `json:"animation_code"`
}
