package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/boxtower/pkg/dag"
	dagtransform "github.com/matzehuels/boxtower/pkg/dag/transform"
	"github.com/matzehuels/boxtower/pkg/render/nodelink"
	"github.com/matzehuels/boxtower/pkg/render/tower"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
	"github.com/matzehuels/boxtower/pkg/render/tower/sink"
	"github.com/matzehuels/boxtower/pkg/render/tower/styles"
	"github.com/matzehuels/boxtower/pkg/render/tower/transform"
)

// BuildTower applies the geometry post-processor to a solved layout.
func BuildTower(g *dag.DAG, l layout.Layout, opts Options) (tower.Tower, error) {
	return transform.Scale(g, l, opts.Transform)
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, g *dag.DAG, l layout.Layout, opts Options) (map[string][]byte, tower.Tower, error) {
	if opts.VizType == VizTypeNodelink {
		artifacts, err := renderNodelink(ctx, g, opts)
		return artifacts, tower.Tower{}, err
	}

	t, err := BuildTower(g, l, opts)
	if err != nil {
		return nil, tower.Tower{}, err
	}
	artifacts, err := renderTower(ctx, g, l, t, opts)
	return artifacts, t, err
}

func renderTower(ctx context.Context, g *dag.DAG, l layout.Layout, t tower.Tower, opts Options) (map[string][]byte, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style), sink.WithCSS(opts.CSS), sink.WithTitle(opts.Source)}
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(t, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, t, sink.WithScale(opts.PNGScale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, t, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(t,
				sink.WithJSONStyle(style.Name()),
				sink.WithJSONEdges(dagtransform.TransitiveReduction(g)),
				sink.WithJSONLayout(l),
			)
		default:
			return nil, fmt.Errorf("unsupported tower format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderNodelink(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(g, nodelink.Options{Transitive: opts.Transitive})
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.PNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
