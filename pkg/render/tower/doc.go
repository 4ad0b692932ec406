// Package tower draws a dependency graph as a tower of boxes.
//
// # Overview
//
// Every node becomes a box. A box rests on exactly the boxes of its direct
// dependencies: transitive dependencies sit further down the tower and are
// never touched. The ground node "( root )" is the base everything stands
// on. The pipeline has three stages:
//
//  1. Layout ([layout]): a SAT solver places integer rectangles so that the
//     resting relation matches the direct dependencies, minimizing the total
//     perimeter.
//  2. Transform ([transform]): rectangles are scaled to drawing units, inset
//     so neighbors do not touch, and jittered with a seeded generator.
//  3. Sink ([sink]): the resulting [Tower] is written as SVG, JSON, PNG or
//     PDF. [styles] controls how SVG boxes look.
//
// # Rendering Pipeline
//
//	g := dag.New()
//	_ = g.Insert("a", nil)
//	_ = g.Insert("b", []string{"a"})
//
//	l, err := layout.Solve(ctx, g, layout.Options{})
//	t, err := transform.Scale(g, l, transform.DefaultOptions())
//	svg := sink.RenderSVG(t)
//
// [layout]: github.com/matzehuels/boxtower/pkg/render/tower/layout
// [transform]: github.com/matzehuels/boxtower/pkg/render/tower/transform
// [sink]: github.com/matzehuels/boxtower/pkg/render/tower/sink
// [styles]: github.com/matzehuels/boxtower/pkg/render/tower/styles
package tower
