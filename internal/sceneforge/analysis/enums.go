package analysis

// Closed vocabularies for model output. Values outside these lists
// fail validation rather than being coerced.
var (
	SubjectAreas = []string{
		"biology", "physics", "chemistry", "history", "geography",
		"astronomy", "anatomy", "engineering", "mathematics", "general",
	}
	Moods            = []string{"scientific", "playful", "serious", "exploratory"}
	DifficultyLevels = []string{"beginner", "intermediate", "advanced"}
	LayoutTypes      = []string{"concept-map", "network", "hierarchy", "timeline", "clusters"}
	NodeShapes       = []string{"sphere", "box", "cylinder", "cone", "torus", "octahedron"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
