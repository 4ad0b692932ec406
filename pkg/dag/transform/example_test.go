package transform_test

import (
	"fmt"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/dag/transform"
)

func ExampleTransitiveReduction() {
	// A → B → C with transitive edge A → C
	g := dag.New()
	_ = g.Insert("C", nil)
	_ = g.Insert("B", []string{"C"})
	_ = g.Insert("A", []string{"B", "C"}) // C is redundant

	fmt.Println("Declared:", g.EdgeCount(), "edges")
	for _, e := range transform.WithoutGround(transform.TransitiveReduction(g)) {
		fmt.Println(e.From, "->", e.To)
	}
	// Output:
	// Declared: 4 edges
	// B -> C
	// A -> B
}

func ExampleLevels() {
	g := dag.New()
	_ = g.Insert("core", nil)
	_ = g.Insert("lib", []string{"core"})
	_ = g.Insert("app", []string{"lib", "core"})

	levels := transform.Levels(g)
	fmt.Println("core:", levels["core"])
	fmt.Println("lib:", levels["lib"])
	fmt.Println("app:", levels["app"])
	// Output:
	// core: 1
	// lib: 2
	// app: 3
}
