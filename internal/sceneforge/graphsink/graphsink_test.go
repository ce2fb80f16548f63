package graphsink

import (
	"context"
	"testing"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
)

func sampleGraph() *analysis.ConceptGraph {
	return &analysis.ConceptGraph{
		Title:       "Water Cycle",
		Summary:     "Evaporation to rain.",
		SubjectArea: "geography",
		LayoutType:  "timeline",
		Concepts: []analysis.Concept{
			{ID: "evap", Name: "Evaporation", CategoryID: "stages", Importance: 4, Shape: "sphere"},
			{ID: "rain", Name: "Rain", CategoryID: "stages", Importance: 5, Shape: "sphere", ParentID: "evap"},
			{ID: "odd", Name: "Odd", CategoryID: "missing", Importance: 2, Shape: "box", ParentID: "ghost"},
		},
		Relationships: []analysis.Relationship{
			{FromID: "evap", ToID: "rain", Type: "leads_to", Strength: 5},
			{FromID: "evap", ToID: "ghost", Type: "leads_to", Strength: 1},
		},
		Categories: []analysis.Category{{ID: "stages", Name: "Stages", Color: "#118ab2"}},
	}
}

func TestBuildRowsPrefixesAndFilters(t *testing.T) {
	r := buildRows("scene-1", sampleGraph(), "2025-03-01T00:00:00Z")

	if r.scene["id"] != "scene-1" || r.scene["layout_type"] != "timeline" {
		t.Fatalf("scene row = %+v", r.scene)
	}

	if len(r.concepts) != 3 {
		t.Fatalf("expected 3 concept rows, got %d", len(r.concepts))
	}
	if r.concepts[0]["uid"] != "scene-1:evap" {
		t.Fatalf("uid not scene scoped: %v", r.concepts[0]["uid"])
	}

	// The relationship to a ghost concept must not survive.
	if len(r.relationships) != 1 {
		t.Fatalf("expected 1 relationship row, got %d", len(r.relationships))
	}
	if r.relationships[0]["to_uid"] != "scene-1:rain" {
		t.Fatalf("relationship row = %+v", r.relationships[0])
	}

	// Only the child with an existing parent produces a CHILD_OF row.
	if len(r.parents) != 1 || r.parents[0]["parent_uid"] != "scene-1:evap" {
		t.Fatalf("parent rows = %+v", r.parents)
	}

	// Membership requires a declared category.
	if len(r.memberships) != 2 {
		t.Fatalf("membership rows = %+v", r.memberships)
	}
	for _, m := range r.memberships {
		if m["category_uid"] != "scene-1:stages" {
			t.Fatalf("unexpected category: %+v", m)
		}
	}
}

func TestArchiveWithoutClientIsNoOp(t *testing.T) {
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if err := Archive(context.Background(), nil, log, "scene-1", sampleGraph()); err != nil {
		t.Fatalf("nil client should be a no-op: %v", err)
	}
	if err := Archive(context.Background(), nil, log, "", nil); err != nil {
		t.Fatalf("empty input should be a no-op: %v", err)
	}
}
