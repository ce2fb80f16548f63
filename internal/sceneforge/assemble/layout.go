package assemble

import (
	"math"

	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
)

const defaultNodeColor = "#6ea8fe"

// PlacedNode pairs a concept with its computed scene position and the
// visual attributes derived from importance and category.
type PlacedNode struct {
	Concept analysis.Concept
	X, Y, Z float64
	Size    float64
	Color   string
}

// PlacedEdge references placed nodes by index into the node slice.
type PlacedEdge struct {
	From, To int
	Opacity  float64
}

// Layout places every concept using the same rules the scene template
// applies client side, so server-rendered previews line up with what the
// viewer sees. Relationships pointing at unknown concepts are dropped.
func Layout(g *analysis.ConceptGraph) ([]PlacedNode, []PlacedEdge) {
	catColors := make(map[string]string, len(g.Categories))
	for _, c := range g.Categories {
		catColors[c.ID] = c.Color
	}

	pos := positionsFor(g)

	nodes := make([]PlacedNode, 0, len(g.Concepts))
	index := make(map[string]int, len(g.Concepts))
	for _, c := range g.Concepts {
		p := pos[c.ID]
		color := c.Color
		if color == "" {
			color = catColors[c.CategoryID]
		}
		if color == "" {
			color = defaultNodeColor
		}
		index[c.ID] = len(nodes)
		nodes = append(nodes, PlacedNode{
			Concept: c,
			X:       p.x,
			Y:       p.y,
			Z:       p.z,
			Size:    0.3 + float64(c.Importance)/5*0.5,
			Color:   color,
		})
	}

	edges := make([]PlacedEdge, 0, len(g.Relationships))
	for _, r := range g.Relationships {
		from, okFrom := index[r.FromID]
		to, okTo := index[r.ToID]
		if !okFrom || !okTo {
			continue
		}
		edges = append(edges, PlacedEdge{
			From:    from,
			To:      to,
			Opacity: 0.2 + float64(r.Strength)/5*0.3,
		})
	}
	return nodes, edges
}

type point struct{ x, y, z float64 }

func positionsFor(g *analysis.ConceptGraph) map[string]point {
	pos := make(map[string]point, len(g.Concepts))

	switch g.LayoutType {
	case "hierarchy":
		// Two bands: concepts without a parent on top, the rest below.
		var roots, children []analysis.Concept
		for _, c := range g.Concepts {
			if c.ParentID == "" {
				roots = append(roots, c)
			} else {
				children = append(children, c)
			}
		}
		y := 3.0
		for _, level := range [][]analysis.Concept{roots, children} {
			for i, c := range level {
				pos[c.ID] = point{x: (float64(i) - float64(len(level)-1)/2) * 4, y: y}
			}
			y -= 4
		}

	case "timeline":
		for i, c := range g.Concepts {
			pos[c.ID] = point{x: float64(i)*4 - float64(len(g.Concepts)-1)*2}
		}

	case "clusters":
		// Category centers sit on a ring, members on a small local ring.
		var order []string
		groups := make(map[string][]analysis.Concept)
		for _, c := range g.Concepts {
			if _, ok := groups[c.CategoryID]; !ok {
				order = append(order, c.CategoryID)
			}
			groups[c.CategoryID] = append(groups[c.CategoryID], c)
		}
		for ci, cat := range order {
			members := groups[cat]
			catAngle := float64(ci) / float64(len(order)) * 2 * math.Pi
			cx := math.Cos(catAngle) * 8
			cz := math.Sin(catAngle) * 8
			for i, c := range members {
				local := float64(i) / float64(len(members)) * 2 * math.Pi
				pos[c.ID] = point{
					x: cx + math.Cos(local)*2,
					y: float64(c.Importance-3) * 0.3,
					z: cz + math.Sin(local)*2,
				}
			}
		}

	default:
		// concept-map and network share the radial layout: the central
		// concept at the origin, everything else on a ring.
		others := make([]analysis.Concept, 0, len(g.Concepts))
		for _, c := range g.Concepts {
			if g.CentralConceptID != "" && c.ID == g.CentralConceptID {
				pos[c.ID] = point{}
				continue
			}
			others = append(others, c)
		}
		for i, c := range others {
			angle := float64(i) / float64(len(others)) * 2 * math.Pi
			pos[c.ID] = point{
				x: math.Cos(angle) * 6,
				y: float64(c.Importance-3) * 0.5,
				z: math.Sin(angle) * 6,
			}
		}
	}

	return pos
}
