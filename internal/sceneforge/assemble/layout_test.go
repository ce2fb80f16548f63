package assemble

import (
	"math"
	"testing"

	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func placed(nodes []PlacedNode, id string) (PlacedNode, bool) {
	for _, n := range nodes {
		if n.Concept.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

func TestLayoutRadialPlacesCentralAtOrigin(t *testing.T) {
	g := &analysis.ConceptGraph{
		Title:            "t",
		SubjectArea:      "biology",
		LayoutType:       "concept-map",
		CentralConceptID: "core",
		Concepts: []analysis.Concept{
			{ID: "core", Name: "Core", Importance: 5, Shape: "sphere"},
			{ID: "a", Name: "A", Importance: 3, Shape: "sphere"},
			{ID: "b", Name: "B", Importance: 1, Shape: "sphere"},
			{ID: "c", Name: "C", Importance: 5, Shape: "sphere"},
			{ID: "d", Name: "D", Importance: 3, Shape: "sphere"},
		},
	}
	nodes, _ := Layout(g)

	core, ok := placed(nodes, "core")
	if !ok || !near(core.X, 0) || !near(core.Y, 0) || !near(core.Z, 0) {
		t.Fatalf("central concept not at origin: %+v", core)
	}
	if !near(core.Size, 0.8) {
		t.Fatalf("importance 5 size = %v, want 0.8", core.Size)
	}

	// Four satellites land a quarter turn apart on a radius-6 ring.
	a, _ := placed(nodes, "a")
	if !near(a.X, 6) || !near(a.Z, 0) || !near(a.Y, 0) {
		t.Fatalf("first satellite misplaced: %+v", a)
	}
	b, _ := placed(nodes, "b")
	if !near(b.X, 0) || !near(b.Z, 6) || !near(b.Y, -1) {
		t.Fatalf("second satellite misplaced: %+v", b)
	}
	c, _ := placed(nodes, "c")
	if !near(c.X, -6) || !near(c.Z, 0) || !near(c.Y, 1) {
		t.Fatalf("third satellite misplaced: %+v", c)
	}
}

func TestLayoutRadialWithoutCentralUsesFullRing(t *testing.T) {
	g := &analysis.ConceptGraph{
		Title:       "t",
		SubjectArea: "biology",
		LayoutType:  "network",
		Concepts: []analysis.Concept{
			{ID: "a", Name: "A", Importance: 3, Shape: "sphere"},
			{ID: "b", Name: "B", Importance: 3, Shape: "sphere"},
		},
	}
	nodes, _ := Layout(g)
	a, _ := placed(nodes, "a")
	b, _ := placed(nodes, "b")
	if !near(a.X, 6) || !near(b.X, -6) {
		t.Fatalf("expected opposite ring positions, got %v and %v", a.X, b.X)
	}
}

func TestLayoutHierarchyTwoBands(t *testing.T) {
	g := &analysis.ConceptGraph{
		Title:       "t",
		SubjectArea: "history",
		LayoutType:  "hierarchy",
		Concepts: []analysis.Concept{
			{ID: "r1", Name: "R1", Importance: 3, Shape: "sphere"},
			{ID: "c1", Name: "C1", Importance: 3, Shape: "sphere", ParentID: "r1"},
			{ID: "r2", Name: "R2", Importance: 3, Shape: "sphere"},
			{ID: "c2", Name: "C2", Importance: 3, Shape: "sphere", ParentID: "r2"},
			{ID: "c3", Name: "C3", Importance: 3, Shape: "sphere", ParentID: "r2"},
		},
	}
	nodes, _ := Layout(g)

	r1, _ := placed(nodes, "r1")
	r2, _ := placed(nodes, "r2")
	if !near(r1.Y, 3) || !near(r2.Y, 3) {
		t.Fatalf("roots not on the top band: %v %v", r1.Y, r2.Y)
	}
	if !near(r1.X, -2) || !near(r2.X, 2) {
		t.Fatalf("roots not centered: %v %v", r1.X, r2.X)
	}

	c1, _ := placed(nodes, "c1")
	c3, _ := placed(nodes, "c3")
	if !near(c1.Y, -1) || !near(c3.Y, -1) {
		t.Fatalf("children not on the lower band: %v %v", c1.Y, c3.Y)
	}
	if !near(c1.X, -4) || !near(c3.X, 4) {
		t.Fatalf("children not spread: %v %v", c1.X, c3.X)
	}
}

func TestLayoutTimelineSpacing(t *testing.T) {
	g := &analysis.ConceptGraph{
		Title:       "t",
		SubjectArea: "history",
		LayoutType:  "timeline",
		Concepts: []analysis.Concept{
			{ID: "a", Name: "A", Importance: 3, Shape: "sphere"},
			{ID: "b", Name: "B", Importance: 3, Shape: "sphere"},
			{ID: "c", Name: "C", Importance: 3, Shape: "sphere"},
		},
	}
	nodes, _ := Layout(g)
	wantX := []float64{-4, 0, 4}
	for i, n := range nodes {
		if !near(n.X, wantX[i]) || !near(n.Y, 0) || !near(n.Z, 0) {
			t.Fatalf("timeline node %d at (%v,%v,%v), want x=%v", i, n.X, n.Y, n.Z, wantX[i])
		}
	}
}

func TestLayoutClustersGroupByCategory(t *testing.T) {
	g := &analysis.ConceptGraph{
		Title:       "t",
		SubjectArea: "chemistry",
		LayoutType:  "clusters",
		Concepts: []analysis.Concept{
			{ID: "a1", Name: "A1", CategoryID: "acids", Importance: 3, Shape: "sphere"},
			{ID: "a2", Name: "A2", CategoryID: "acids", Importance: 5, Shape: "sphere"},
			{ID: "b1", Name: "B1", CategoryID: "bases", Importance: 3, Shape: "sphere"},
		},
	}
	nodes, _ := Layout(g)

	// First category ring center is (8,0,0); its first member sits at
	// local angle zero, two units further out.
	a1, _ := placed(nodes, "a1")
	if !near(a1.X, 10) || !near(a1.Z, 0) || !near(a1.Y, 0) {
		t.Fatalf("a1 misplaced: %+v", a1)
	}
	a2, _ := placed(nodes, "a2")
	if !near(a2.X, 6) || !near(a2.Y, 0.6) {
		t.Fatalf("a2 misplaced: %+v", a2)
	}
	b1, _ := placed(nodes, "b1")
	if !near(b1.X, -6) {
		t.Fatalf("second category not on the opposite side: %+v", b1)
	}
}

func TestLayoutColorsFallBackThroughCategory(t *testing.T) {
	g := &analysis.ConceptGraph{
		Title:       "t",
		SubjectArea: "biology",
		LayoutType:  "network",
		Concepts: []analysis.Concept{
			{ID: "own", Name: "Own", CategoryID: "cells", Color: "#111111", Importance: 3, Shape: "sphere"},
			{ID: "cat", Name: "Cat", CategoryID: "cells", Importance: 3, Shape: "sphere"},
			{ID: "none", Name: "None", CategoryID: "missing", Importance: 3, Shape: "sphere"},
		},
		Categories: []analysis.Category{{ID: "cells", Name: "Cells", Color: "#222222"}},
	}
	nodes, _ := Layout(g)

	own, _ := placed(nodes, "own")
	cat, _ := placed(nodes, "cat")
	none, _ := placed(nodes, "none")
	if own.Color != "#111111" {
		t.Fatalf("own color lost: %s", own.Color)
	}
	if cat.Color != "#222222" {
		t.Fatalf("category color not applied: %s", cat.Color)
	}
	if none.Color != "#6ea8fe" {
		t.Fatalf("default color not applied: %s", none.Color)
	}
}

func TestLayoutDropsDanglingEdges(t *testing.T) {
	g := &analysis.ConceptGraph{
		Title:       "t",
		SubjectArea: "biology",
		LayoutType:  "network",
		Concepts: []analysis.Concept{
			{ID: "a", Name: "A", Importance: 3, Shape: "sphere"},
			{ID: "b", Name: "B", Importance: 3, Shape: "sphere"},
		},
		Relationships: []analysis.Relationship{
			{FromID: "a", ToID: "b", Type: "links", Strength: 5},
			{FromID: "a", ToID: "ghost", Type: "links", Strength: 2},
		},
	}
	_, edges := Layout(g)
	if len(edges) != 1 {
		t.Fatalf("expected one edge, got %d", len(edges))
	}
	if !near(edges[0].Opacity, 0.5) {
		t.Fatalf("strength 5 opacity = %v, want 0.5", edges[0].Opacity)
	}
}
