package analysis

import (
	"fmt"
	"strings"
)

// Validate reports every problem at once so a bad model response is
// diagnosable from a single log line.
func (a *ContentAnalysis) Validate() error {
	var problems []string
	if strings.TrimSpace(a.Title) == "" {
		problems = append(problems, "title is empty")
	}
	if len(a.KeyConcepts) == 0 {
		problems = append(problems, "no key concepts")
	}
	for i, c := range a.KeyConcepts {
		if strings.TrimSpace(c.Name) == "" {
			problems = append(problems, fmt.Sprintf("key_concepts[%d]: name is empty", i))
		}
		if c.Importance < 1 || c.Importance > 5 {
			problems = append(problems, fmt.Sprintf("key_concepts[%d]: importance %d outside 1..5", i, c.Importance))
		}
	}
	if !oneOf(a.SubjectArea, SubjectAreas) {
		problems = append(problems, fmt.Sprintf("subject_area %q not allowed", a.SubjectArea))
	}
	if !oneOf(a.DifficultyLevel, DifficultyLevels) {
		problems = append(problems, fmt.Sprintf("difficulty_level %q not allowed", a.DifficultyLevel))
	}
	if !oneOf(a.VisualTheme.Mood, Moods) {
		problems = append(problems, fmt.Sprintf("visual_theme.mood %q not allowed", a.VisualTheme.Mood))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid content analysis: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks structure and ranges. References to unknown ids are
// not an error here; the renderer skips them.
func (g *ConceptGraph) Validate() error {
	var problems []string
	if strings.TrimSpace(g.Title) == "" {
		problems = append(problems, "title is empty")
	}
	if !oneOf(g.SubjectArea, SubjectAreas) {
		problems = append(problems, fmt.Sprintf("subject_area %q not allowed", g.SubjectArea))
	}
	if !oneOf(g.LayoutType, LayoutTypes) {
		problems = append(problems, fmt.Sprintf("layout_type %q not allowed", g.LayoutType))
	}
	if len(g.Concepts) == 0 {
		problems = append(problems, "no concepts")
	}
	seen := make(map[string]bool, len(g.Concepts))
	for i, c := range g.Concepts {
		if strings.TrimSpace(c.ID) == "" {
			problems = append(problems, fmt.Sprintf("concepts[%d]: id is empty", i))
			continue
		}
		if seen[c.ID] {
			problems = append(problems, fmt.Sprintf("concepts[%d]: duplicate id %q", i, c.ID))
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Name) == "" {
			problems = append(problems, fmt.Sprintf("concepts[%d]: name is empty", i))
		}
		if c.Importance < 1 || c.Importance > 5 {
			problems = append(problems, fmt.Sprintf("concepts[%d]: importance %d outside 1..5", i, c.Importance))
		}
		if !oneOf(c.Shape, NodeShapes) {
			problems = append(problems, fmt.Sprintf("concepts[%d]: shape %q not allowed", i, c.Shape))
		}
	}
	for i, r := range g.Relationships {
		if r.Strength < 1 || r.Strength > 5 {
			problems = append(problems, fmt.Sprintf("relationships[%d]: strength %d outside 1..5", i, r.Strength))
		}
	}
	if p := g.ParticleEffects; p != nil {
		if p.ParticleCount < 500 || p.ParticleCount > 5000 {
			problems = append(problems, fmt.Sprintf("particle_effects: particle_count %d outside 500..5000", p.ParticleCount))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid concept graph: %s", strings.Join(problems, "; "))
	}
	return nil
}
