// Package dag provides the dependency graph behind box tower diagrams.
//
// # Overview
//
// A box tower draws every item as a rectangle resting on the rectangles of
// its direct dependencies, with a synthetic ground box at the base. This
// package stores the items, their declared dependencies, style tags and
// labels, and answers the reachability questions the layout solver needs.
//
// # Building
//
// [New] returns a graph that already contains the [Ground] node. Nodes are
// added with [DAG.Insert] (or [DAG.Add] to set style and label at once) and
// every dependency must already be present:
//
//	g := dag.New()
//	_ = g.Insert("a", nil)            // depends on ground
//	_ = g.Insert("b", []string{"a"})
//	_ = g.Insert("c", []string{"b"})
//	_ = g.Insert("d", []string{"a", "c"})
//
// Declaring dependencies before dependents is the only ordering rule, and it
// makes cycles impossible to express. No cycle detection is needed.
//
// # Direct and Transitive Dependencies
//
// In the example above d declares both a and c, but a is also reachable
// through c. The tower only draws d resting on c; a is a transitive
// dependency and is elided. [DAG.Classify] returns [Direct], [Transitive] or
// [Unrelated] for any pair, and [DAG.IsDirectDependency] is the predicate the
// layout solver consumes.
//
// # Finalization
//
// The first query finalizes the graph: the full reachability closure is
// computed once, as bitsets, in a single pass over insertion order. After
// that [DAG.Insert] returns [ErrFinalized], so cached answers can never go
// stale. Call [DAG.Finalize] explicitly to make the boundary visible.
//
// # Related Packages
//
// The [transform] subpackage derives the direct-dependency edge set used by
// the node-link and JSON outputs.
//
// [transform]: github.com/matzehuels/boxtower/pkg/dag/transform
package dag
