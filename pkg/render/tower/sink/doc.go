// Package sink writes a [tower.Tower] in its output formats.
//
//   - SVG: [RenderSVG], the native format
//   - JSON: [RenderJSON], the render contract as data, readable again with
//     [ParseJSON]
//   - PDF and PNG: [RenderPDF] and [RenderPNG], converted from SVG with
//     rsvg-convert
//
// # SVG Output
//
// The drawing's view box is the bounding box of all blocks plus a margin of
// 5 units. The <style> element holds the style's built-in rules followed by
// any user CSS, so a style sheet can recolor tags such as .red or add new
// ones. Each block becomes a rounded <rect> with the node's style tag as
// its class, and each label line a <tspan> of its <text>.
//
//	svg := sink.RenderSVG(t,
//	    sink.WithStyle(styles.Plain{}),
//	    sink.WithCSS("rect.db { fill: #cde; }"),
//	)
//
// [tower.Tower]: github.com/matzehuels/boxtower/pkg/render/tower.Tower
package sink
