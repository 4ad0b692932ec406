package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/dag/transform"
	"github.com/matzehuels/boxtower/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds each node's style tag to its label.
	Detailed bool
	// Transitive also draws the declared dependencies that the tower does
	// not show as contact, as dashed grey arrows.
	Transitive bool
	// HideGround leaves out the ground node and the edges into it.
	HideGround bool
}

// ToDOT converts the direct dependencies of g to Graphviz DOT format, the
// same relation the tower shows as boxes resting on each other. Nodes at
// the same distance from the ground share a rank.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if opts.HideGround && n.IsGround() {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	writeRanks(&buf, g, opts.HideGround)

	direct := transform.TransitiveReduction(g)
	var transitive []dag.Edge
	if opts.Transitive {
		transitive = transform.TransitiveEdges(g)
	}
	if opts.HideGround {
		direct = transform.WithoutGround(direct)
		transitive = transform.WithoutGround(transitive)
	}
	for _, e := range direct {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	for _, e := range transitive {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey];\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	label := n.ID
	if n.Label != "" {
		label = strings.Join(n.Lines(), "\n")
	}
	if detailed {
		label += "\n." + n.Style
	}
	return label
}

func fmtAttrs(n dag.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if c, ok := fillColors[n.Style]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	if n.IsGround() {
		attrs = append(attrs, "shape=box", "style=\"filled\"")
	}
	return attrs
}

// fillColors mirrors the hues of the classic tower style.
var fillColors = map[string]string{
	"red":    "#ffcccc",
	"yellow": "#ffffcc",
	"green":  "#ccffcc",
	"blue":   "#ccffff",
	"purple": "#ccccff",
	"pink":   "#ffccff",
	"base":   "#ffffcc",
}

func writeRanks(buf *bytes.Buffer, g *dag.DAG, hideGround bool) {
	byLevel := make(map[int][]string)
	for id, lvl := range transform.Levels(g) {
		if hideGround && id == dag.Ground {
			continue
		}
		byLevel[lvl] = append(byLevel[lvl], id)
	}
	for _, lvl := range slices.Sorted(maps.Keys(byLevel)) {
		ids := byLevel[lvl]
		if len(ids) < 2 {
			continue
		}
		slices.Sort(ids)
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = strconv.Quote(id)
		}
		fmt.Fprintf(buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}
	buf.WriteString("\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
