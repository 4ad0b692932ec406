// Package nodelink renders the dependency graph as a node-link diagram.
//
// # Overview
//
// The tower hides which box depends on which once boxes are stacked more
// than one level deep. A node-link diagram shows the same relation as
// arrows. [ToDOT] emits only the direct dependencies, the edges the tower
// draws as contact, and can add the transitive ones as dashed arrows.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Transitive: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
