// Package graphsink archives concept graphs into Neo4j so generated
// scenes can be explored across documents later. Archiving is opt-in
// and never blocks generation.
package graphsink

import (
	"context"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/platform/neo4jdb"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
)

type rows struct {
	scene         map[string]any
	concepts      []map[string]any
	relationships []map[string]any
	categories    []map[string]any
	parents       []map[string]any
	memberships   []map[string]any
}

// buildRows flattens a graph into parameter rows. Concept and category
// node ids are prefixed with the scene id so different scenes never
// collide; dangling references are dropped.
func buildRows(sceneID string, g *analysis.ConceptGraph, now string) rows {
	uid := func(id string) string { return sceneID + ":" + id }

	out := rows{
		scene: map[string]any{
			"id":           sceneID,
			"title":        g.Title,
			"summary":      g.Summary,
			"subject_area": g.SubjectArea,
			"layout_type":  g.LayoutType,
			"synced_at":    now,
		},
	}

	conceptIDs := make(map[string]bool, len(g.Concepts))
	for _, c := range g.Concepts {
		if strings.TrimSpace(c.ID) == "" {
			continue
		}
		conceptIDs[c.ID] = true
		out.concepts = append(out.concepts, map[string]any{
			"uid":         uid(c.ID),
			"scene_id":    sceneID,
			"concept_id":  c.ID,
			"name":        c.Name,
			"description": c.Description,
			"category_id": c.CategoryID,
			"importance":  c.Importance,
			"shape":       c.Shape,
			"color":       c.Color,
			"synced_at":   now,
		})
	}

	categoryIDs := make(map[string]bool, len(g.Categories))
	for _, cat := range g.Categories {
		if strings.TrimSpace(cat.ID) == "" {
			continue
		}
		categoryIDs[cat.ID] = true
		out.categories = append(out.categories, map[string]any{
			"uid":         uid(cat.ID),
			"scene_id":    sceneID,
			"category_id": cat.ID,
			"name":        cat.Name,
			"color":       cat.Color,
			"synced_at":   now,
		})
	}

	for _, r := range g.Relationships {
		if !conceptIDs[r.FromID] || !conceptIDs[r.ToID] {
			continue
		}
		out.relationships = append(out.relationships, map[string]any{
			"from_uid":  uid(r.FromID),
			"to_uid":    uid(r.ToID),
			"type":      r.Type,
			"label":     r.Label,
			"strength":  r.Strength,
			"synced_at": now,
		})
	}

	for _, c := range g.Concepts {
		if c.ParentID != "" && conceptIDs[c.ID] && conceptIDs[c.ParentID] {
			out.parents = append(out.parents, map[string]any{
				"child_uid":  uid(c.ID),
				"parent_uid": uid(c.ParentID),
				"synced_at":  now,
			})
		}
		if c.CategoryID != "" && conceptIDs[c.ID] && categoryIDs[c.CategoryID] {
			out.memberships = append(out.memberships, map[string]any{
				"concept_uid":  uid(c.ID),
				"category_uid": uid(c.CategoryID),
				"synced_at":    now,
			})
		}
	}

	return out
}

// Archive writes one scene's graph. A nil client means the feature is
// off and the call is a no-op.
func Archive(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, sceneID string, g *analysis.ConceptGraph) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if g == nil || strings.TrimSpace(sceneID) == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	r := buildRows(sceneID, g, now)

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Best-effort schema init.
	{
		stmts := []string{
			`CREATE CONSTRAINT scene_id_unique IF NOT EXISTS FOR (s:Scene) REQUIRE s.id IS UNIQUE`,
			`CREATE CONSTRAINT concept_uid_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.uid IS UNIQUE`,
			`CREATE CONSTRAINT category_uid_unique IF NOT EXISTS FOR (c:Category) REQUIRE c.uid IS UNIQUE`,
		}
		for _, q := range stmts {
			if res, err := session.Run(ctx, q, nil); err != nil {
				if log != nil {
					log.Warn("neo4j schema init failed (continuing)", "error", err)
				}
			} else {
				_, _ = res.Consume(ctx)
			}
		}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if res, err := tx.Run(ctx, `
MERGE (s:Scene {id: $scene.id})
SET s += $scene
`, map[string]any{"scene": r.scene}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(r.concepts) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $concepts AS c
MERGE (n:Concept {uid: c.uid})
SET n += c
WITH n, c
MATCH (s:Scene {id: c.scene_id})
MERGE (s)-[e:HAS_CONCEPT]->(n)
SET e.synced_at = c.synced_at
`, map[string]any{"concepts": r.concepts})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(r.categories) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $categories AS c
MERGE (n:Category {uid: c.uid})
SET n += c
WITH n, c
MATCH (s:Scene {id: c.scene_id})
MERGE (s)-[e:HAS_CATEGORY]->(n)
SET e.synced_at = c.synced_at
`, map[string]any{"categories": r.categories})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(r.relationships) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:Concept {uid: r.from_uid})
MATCH (b:Concept {uid: r.to_uid})
MERGE (a)-[x:RELATES_TO {type: r.type}]->(b)
SET x.label = r.label, x.strength = r.strength, x.synced_at = r.synced_at
`, map[string]any{"rels": r.relationships})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(r.parents) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (c:Concept {uid: r.child_uid})
MATCH (p:Concept {uid: r.parent_uid})
MERGE (c)-[x:CHILD_OF]->(p)
SET x.synced_at = r.synced_at
`, map[string]any{"rels": r.parents})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(r.memberships) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (n:Concept {uid: r.concept_uid})
MATCH (c:Category {uid: r.category_uid})
MERGE (n)-[x:IN_CATEGORY]->(c)
SET x.synced_at = r.synced_at
`, map[string]any{"rels": r.memberships})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})
	if err != nil {
		return err
	}

	if log != nil {
		log.Info("Concept graph archived", "scene_id", sceneID,
			"concepts", len(r.concepts), "relationships", len(r.relationships))
	}
	return nil
}
