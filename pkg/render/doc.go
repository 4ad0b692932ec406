// Package render holds the output side of boxtower.
//
// # Overview
//
//   - Format conversion (SVG to PDF/PNG), in this package
//   - Tower drawings, in the [tower] subpackages
//   - Node-link diagrams of the direct dependencies, in [nodelink]
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg). The command runs under the caller's context, so a
// cancelled request stops it.
//
//	svg := sink.RenderSVG(t)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [tower]: github.com/matzehuels/boxtower/pkg/render/tower
// [nodelink]: github.com/matzehuels/boxtower/pkg/render/nodelink
package render
