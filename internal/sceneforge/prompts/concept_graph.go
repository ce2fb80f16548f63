package prompts

import (
	"fmt"
	"strings"
)

func conceptGraphSchema() map[string]any {
	return strictObject(map[string]any{
		"title":   StringSchema(),
		"summary": StringSchema(),
		"subject_area": EnumSchema(
			"biology", "physics", "chemistry", "history", "geography",
			"astronomy", "anatomy", "engineering", "mathematics", "general",
		),
		"layout_type":        EnumSchema("concept-map", "network", "hierarchy", "timeline", "clusters"),
		"central_concept_id": StringOrNullSchema(),
		"concepts": arrayOf(strictObject(map[string]any{
			"id":          StringSchema(),
			"name":        StringSchema(),
			"description": StringSchema(),
			"category_id": StringSchema(),
			"importance":  IntRangeSchema(1, 5),
			"parent_id":   StringOrNullSchema(),
			"shape":       EnumSchema("sphere", "box", "cylinder", "cone", "torus", "octahedron"),
			"color":       StringOrNullSchema(),
		})),
		"relationships": arrayOf(strictObject(map[string]any{
			"from_id":  StringSchema(),
			"to_id":    StringSchema(),
			"type":     StringSchema(),
			"label":    StringOrNullSchema(),
			"strength": IntRangeSchema(1, 5),
		})),
		"categories": arrayOf(strictObject(map[string]any{
			"id":    StringSchema(),
			"name":  StringSchema(),
			"color": StringSchema(),
		})),
		"particle_effects": strictObjectOrNull(map[string]any{
			"description":    StringSchema(),
			"particle_count": IntRangeSchema(500, 5000),
			"colors":         StringArraySchema(),
			"generator_code": StringSchema(),
			"animation_code": StringSchema(),
		}),
		"suggested_exploration_order": StringArrayOrNullSchema(),
	})
}

func init() {
	RegisterSpec(Spec{
		Name:       PromptConceptGraph,
		Version:    1,
		SchemaName: "concept_graph",
		Schema:     conceptGraphSchema,
		System: `You design concept graphs for interactive 3D visualizations of study
material. Respond with JSON matching the provided schema. Give every
concept a unique id and assign it to one of the categories you define.
Relationships, parent_id, central_concept_id and the exploration order
may only reference those ids. Pick the layout_type that best fits the
structure of the material: hierarchy for taxonomies, timeline for
chronological material, clusters for grouped topics, concept-map or
network otherwise. Colors are hex strings. particle_effects is optional
ambience; when you include it, generator_code must be the body of a
function (THREE, scene, count, colors) that adds a particle system to
the scene and returns it, and animation_code the body of a function
(particles, time) that advances it each frame. Neither body may
reference anything beyond its parameters.`,
		User: `Build a concept graph for the following document. Aim for 8 to 20
concepts, 2 to 5 categories, and relationships that capture how the
ideas depend on each other.

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
