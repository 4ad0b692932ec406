package sink

import (
	"encoding/json"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/render/tower"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
	edges []dag.Edge
	grid  *layout.Layout
}

// WithJSONStyle records the style name in the output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONEdges includes the given dependency edges, usually the direct
// edges from [transform.TransitiveReduction].
//
// [transform.TransitiveReduction]: github.com/matzehuels/boxtower/pkg/dag/transform.TransitiveReduction
func WithJSONEdges(edges []dag.Edge) JSONOption {
	return func(r *jsonRenderer) { r.edges = edges }
}

// WithJSONLayout includes the integer grid rectangles and solver statistics
// the tower was drawn from.
func WithJSONLayout(l layout.Layout) JSONOption {
	return func(r *jsonRenderer) { r.grid = &l }
}

type jsonOutput struct {
	ViewBox [4]float64    `json:"view_box"`
	Style   string        `json:"style,omitempty"`
	Seed    uint64        `json:"seed"`
	Blocks  []tower.Block `json:"blocks"`
	Edges   []jsonEdge    `json:"edges,omitempty"`
	Grid    []layout.Rect `json:"grid,omitempty"`
	Stats   *layout.Stats `json:"stats,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RenderJSON exports the render contract as a pretty-printed JSON document:
// the blocks in drawing order with their style and label, plus the seed
// needed to draw them again. The view box uses the same padding as
// [RenderSVG].
func RenderJSON(t tower.Tower, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := t.Bounds()
	out := jsonOutput{
		ViewBox: [4]float64{minX - viewPad, minY - viewPad, maxX - minX + 2*viewPad, maxY - minY + 2*viewPad},
		Style:   r.style,
		Seed:    t.Seed,
		Blocks:  t.Blocks,
	}
	if out.Blocks == nil {
		out.Blocks = []tower.Block{}
	}
	for _, e := range r.edges {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To})
	}
	if r.grid != nil {
		out.Grid = r.grid.Rects
		out.Stats = &r.grid.Stats
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON reads back the tower written by [RenderJSON], so a stored
// drawing can be rendered to other formats without solving again.
func ParseJSON(data []byte) (tower.Tower, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return tower.Tower{}, err
	}
	return tower.Tower{Blocks: out.Blocks, Seed: out.Seed}, nil
}
