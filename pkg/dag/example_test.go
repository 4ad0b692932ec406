package dag_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/boxtower/pkg/dag"
)

func ExampleDAG_basic() {
	// a rests on ground, b on a, c on b, d declares a and c
	g := dag.New()
	_ = g.Insert("a", nil)
	_ = g.Insert("b", []string{"a"})
	_ = g.Insert("c", []string{"b"})
	_ = g.Insert("d", []string{"a", "c"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("First:", g.IDs()[0])
	// Output:
	// Nodes: 5
	// Edges: 5
	// First: ( root )
}

func ExampleDAG_Classify() {
	g := dag.New()
	_ = g.Insert("a", nil)
	_ = g.Insert("b", []string{"a"})
	_ = g.Insert("c", []string{"b"})
	_ = g.Insert("d", []string{"a", "c"})

	for _, dep := range []string{"c", "a", "b", dag.Ground} {
		rel, _ := g.Classify("d", dep)
		fmt.Printf("d -> %s: %s\n", dep, rel)
	}
	// Output:
	// d -> c: direct
	// d -> a: transitive
	// d -> b: transitive
	// d -> ( root ): transitive
}

func ExampleDAG_DirectDependencies() {
	g := dag.New()
	_ = g.Insert("os", nil)
	_ = g.Insert("libc", []string{"os"})
	_ = g.Insert("tls", []string{"libc"})
	_ = g.Insert("http", []string{"os", "libc", "tls"})

	direct, _ := g.DirectDependencies("http")
	fmt.Println(direct)
	// Output:
	// [tls]
}

func ExampleDAG_Finalize() {
	g := dag.New()
	_ = g.Insert("a", nil)
	g.Finalize()

	err := g.Insert("b", []string{"a"})
	fmt.Println(errors.Is(err, dag.ErrFinalized))
	// Output:
	// true
}
