package transform

import "github.com/matzehuels/boxtower/pkg/dag"

// TransitiveReduction returns the declared edges of g that survive
// transitive reduction, in insertion order.
//
// An edge (u, v) is dropped when v is also reachable from u through another
// declared dependency. For example, if A declares both B and C and B depends
// on C, then A→C is redundant: A reaches C via B.
//
// These are exactly the edges a tower draws. A box can rest on adjacent
// boxes but not on something several floors down, so transitive edges would
// describe impossible geometry.
//
// TransitiveReduction finalizes g. Repeated declarations of the same
// dependency collapse to a single edge.
func TransitiveReduction(g *dag.DAG) []dag.Edge {
	g.Finalize()
	var edges []dag.Edge
	for _, id := range g.IDs() {
		direct, _ := g.DirectDependencies(id)
		for _, dep := range direct {
			edges = append(edges, dag.Edge{From: id, To: dep})
		}
	}
	return edges
}

// TransitiveEdges returns the declared edges removed by
// [TransitiveReduction], in insertion order.
func TransitiveEdges(g *dag.DAG) []dag.Edge {
	g.Finalize()
	var edges []dag.Edge
	seen := make(map[dag.Edge]bool)
	for _, e := range g.Edges() {
		if seen[e] {
			continue
		}
		seen[e] = true
		if rel, _ := g.Classify(e.From, e.To); rel == dag.Transitive {
			edges = append(edges, e)
		}
	}
	return edges
}

// WithoutGround filters out edges that point at [dag.Ground].
func WithoutGround(edges []dag.Edge) []dag.Edge {
	out := make([]dag.Edge, 0, len(edges))
	for _, e := range edges {
		if e.To != dag.Ground {
			out = append(out, e)
		}
	}
	return out
}
