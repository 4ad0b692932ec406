package transform

import "github.com/matzehuels/boxtower/pkg/dag"

// Levels returns the floor of every node: the length of the longest path of
// declared edges from the node down to [dag.Ground]. Ground is at level 0 and
// every other node sits one level above the highest of its dependencies.
//
// Insertion order is topological, so a single forward pass computes the
// longest path. Levels are a lower bound on how many boxes are stacked below
// a node in any valid tower; the CLI reports them and the node-link renderer
// uses them as ranks.
//
// Time complexity is O(V + E).
func Levels(g *dag.DAG) map[string]int {
	levels := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		level := 0
		for _, dep := range n.Deps {
			if l := levels[dep] + 1; l > level {
				level = l
			}
		}
		levels[n.ID] = level
	}
	return levels
}

// Height returns the highest level in g.
func Height(g *dag.DAG) int {
	h := 0
	for _, l := range Levels(g) {
		h = max(h, l)
	}
	return h
}
