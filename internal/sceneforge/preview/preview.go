// Package preview renders social-card PNG posters of a generated scene
// so history listings can show what a document turned into.
package preview

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/assemble"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/catalog"
)

const (
	posterWidth  = 1200
	posterHeight = 630

	backgroundHex = "#0b1020"
	edgeR, edgeG  = 110, 168
	edgeB         = 254

	worldScale = 42.0
)

type Renderer struct {
	log       *logger.Logger
	titleFace font.Face
	labelFace font.Face
}

func NewRenderer(log *logger.Logger) (*Renderer, error) {
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	titleFace := truetype.NewFace(parsed, &truetype.Options{
		Size:    44,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	labelFace := truetype.NewFace(parsed, &truetype.Options{
		Size:    16,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return &Renderer{
		log:       log.With("service", "Preview"),
		titleFace: titleFace,
		labelFace: labelFace,
	}, nil
}

// Render draws placed nodes and edges onto a dark poster and returns the
// encoded PNG. The projection tilts the scene the way the viewer camera
// does, so ring layouts read as ellipses rather than flat lines.
func (r *Renderer) Render(title string, nodes []assemble.PlacedNode, edges []assemble.PlacedEdge) ([]byte, error) {
	dc := gg.NewContext(posterWidth, posterHeight)

	dc.SetHexColor(backgroundHex)
	dc.DrawRectangle(0, 0, posterWidth, posterHeight)
	dc.Fill()

	sx := make([]float64, len(nodes))
	sy := make([]float64, len(nodes))
	for i, n := range nodes {
		sx[i], sy[i] = project(n.X, n.Y, n.Z)
	}

	dc.SetLineWidth(1.5)
	for _, e := range edges {
		if e.From < 0 || e.From >= len(nodes) || e.To < 0 || e.To >= len(nodes) {
			continue
		}
		dc.SetRGBA255(edgeR, edgeG, edgeB, int(e.Opacity*255))
		dc.DrawLine(sx[e.From], sy[e.From], sx[e.To], sy[e.To])
		dc.Stroke()
	}

	dc.SetFontFace(r.labelFace)
	for i, n := range nodes {
		radius := n.Size * worldScale * 0.9

		dc.SetHexColor(n.Color)
		dc.DrawCircle(sx[i], sy[i], radius)
		dc.Fill()

		dc.SetRGBA255(255, 255, 255, 60)
		dc.SetLineWidth(2)
		dc.DrawCircle(sx[i], sy[i], radius)
		dc.Stroke()

		dc.SetColor(color.White)
		dc.DrawStringAnchored(truncateLabel(n.Concept.Name), sx[i], sy[i]+radius+14, 0.5, 0.5)
	}

	dc.SetFontFace(r.titleFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(truncateTitle(title), posterWidth/2, 64, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// project maps scene coordinates onto the poster. Depth squashes onto
// the vertical axis, height lifts against it.
func project(x, y, z float64) (float64, float64) {
	px := posterWidth/2 + x*worldScale
	py := posterHeight/2 + 40 + z*worldScale*0.55 - y*worldScale*0.8
	return px, py
}

func truncateLabel(s string) string {
	const max = 22
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func truncateTitle(s string) string {
	const max = 48
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// FromMatches arranges matched catalog assets on a single ring so the
// catalog flow gets a poster without a concept graph. Edge list is
// always empty; assets have no relationships.
func FromMatches(matches []catalog.Match, themeColor string) ([]assemble.PlacedNode, []assemble.PlacedEdge) {
	if themeColor == "" {
		themeColor = "#6ea8fe"
	}
	nodes := make([]assemble.PlacedNode, 0, len(matches))
	for i, m := range matches {
		angle := float64(i) / float64(len(matches)) * 2 * math.Pi
		nodes = append(nodes, assemble.PlacedNode{
			Concept: analysis.Concept{ID: m.ID, Name: m.Name},
			X:       math.Cos(angle) * 6,
			Z:       math.Sin(angle) * 6,
			Size:    0.55,
			Color:   themeColor,
		})
	}
	return nodes, nil
}
