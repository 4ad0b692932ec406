package transform_test

import (
	"fmt"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
	"github.com/matzehuels/boxtower/pkg/render/tower/transform"
)

func ExampleScale() {
	g := dag.New()
	_ = g.Insert("app", nil)

	l := layout.Layout{Rects: []layout.Rect{
		{NodeID: dag.Ground, X0: 0, Y0: 0, X1: 1, Y1: 1},
		{NodeID: "app", X0: 0, Y0: -1, X1: 1, Y1: 0},
	}}

	opts := transform.DefaultOptions()
	opts.Jitter = 0
	t, err := transform.Scale(g, l, opts)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, b := range t.Blocks {
		fmt.Printf("%s %q: x=[%.0f, %.0f] y=[%.0f, %.0f] class=%s\n", b.NodeID, b.Label, b.Left, b.Right, b.Top, b.Bottom, b.Style)
	}
	// Output:
	// ( root ) "": x=[10, 150] y=[0, 50] class=base
	// app "app": x=[10, 150] y=[-50, 0] class=box-generic
}

func ExampleJitter() {
	a := transform.Jitter(42, 3, 10)
	b := transform.Jitter(42, 3, 10)
	fmt.Println(len(a), fmt.Sprint(a) == fmt.Sprint(b))
	// Output:
	// 6 true
}
