package assemble

import (
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
)

//go:embed concept_scene.html.tmpl
var conceptSceneSrc string

var conceptScene = template.Must(template.New("concept_scene").Parse(conceptSceneSrc))

// conceptPayload is a concept as the scene script consumes it, with the
// narration data URI merged in.
type conceptPayload struct {
	analysis.Concept
	AudioURL string `json:"audio_url"`
}

type conceptSceneData struct {
	Title              string
	Summary            string
	LayoutJSON         string
	CentralJSON        string
	ConceptsJSON       string
	RelationshipsJSON  string
	CategoriesJSON     string
	OrderJSON          string
	HasParticles       bool
	ParticleCount      int
	ParticleColorsJSON string
	ParticleGenerator  string
	ParticleAnimation  string
}

// BuildConceptHTML renders the deterministic scene for a concept graph.
// audio maps concept ids to data URIs; narration in this mode is the
// concept description itself.
func BuildConceptHTML(g *analysis.ConceptGraph, audio map[string]string) (string, error) {
	concepts := make([]conceptPayload, 0, len(g.Concepts))
	for _, c := range g.Concepts {
		concepts = append(concepts, conceptPayload{Concept: c, AudioURL: audio[c.ID]})
	}

	categories := make(map[string]map[string]string, len(g.Categories))
	for _, c := range g.Categories {
		categories[c.ID] = map[string]string{"name": c.Name, "color": c.Color}
	}

	// The tour script indexes explorationOrder without a null check.
	order := g.SuggestedExplorationOrder
	if order == nil {
		order = []string{}
	}

	data := conceptSceneData{
		Title:             g.Title,
		Summary:           g.Summary,
		LayoutJSON:        asJSON(g.LayoutType),
		CentralJSON:       asJSON(g.CentralConceptID),
		ConceptsJSON:      asJSON(concepts),
		RelationshipsJSON: asJSON(g.Relationships),
		CategoriesJSON:    asJSON(categories),
		OrderJSON:         asJSON(order),
	}
	if pe := g.ParticleEffects; pe != nil {
		colors := pe.Colors
		if colors == nil {
			colors = []string{}
		}
		data.HasParticles = true
		data.ParticleCount = pe.ParticleCount
		data.ParticleColorsJSON = asJSON(colors)
		data.ParticleGenerator = pe.GeneratorCode
		data.ParticleAnimation = pe.AnimationCode
	}

	var b strings.Builder
	if err := conceptScene.Execute(&b, data); err != nil {
		return "", &GenerationError{Reason: "render concept scene", Err: err}
	}
	return b.String(), nil
}

// asJSON marshals plain data values; the default HTML escaping keeps
// "</script>" sequences out of the inline script block.
func asJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
