package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// Ground is the identifier of the synthetic node every tower rests on.
	// The parentheses keep it outside the identifier grammar of BOX files,
	// so no declared node can collide with it.
	Ground = "( root )"

	// GroundStyle is the style tag assigned to the ground node.
	GroundStyle = "base"

	// DefaultStyle is the style tag given to nodes that declare none.
	DefaultStyle = "box-generic"

	// LineBreak separates the lines of a multi-line label.
	LineBreak = `\`
)

var (
	// ErrInvalidNodeID is returned by [DAG.Insert] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNode is returned by [DAG.Insert] when a node with the same
	// ID was already inserted. The ground node counts as inserted.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownDependency is returned by [DAG.Insert] when a declared
	// dependency has not been inserted yet. Dependencies must be declared
	// before their dependents, which is what keeps the graph acyclic.
	ErrUnknownDependency = errors.New("unknown dependency")

	// ErrUnknownNode is returned by queries that name a node which is not
	// part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrFinalized is returned by [DAG.Insert] once the graph has been
	// finalized, either explicitly or by the first reachability query.
	ErrFinalized = errors.New("graph is finalized")
)

// Node is a single item of the dependency graph.
//
// Deps holds the declared dependencies in declaration order. A node inserted
// with no dependencies depends on [Ground], so Deps is only empty for the
// ground node itself.
type Node struct {
	ID    string
	Deps  []string
	Style string
	Label string
}

// IsGround reports whether n is the synthetic ground node.
func (n Node) IsGround() bool { return n.ID == Ground }

// Lines splits the label at explicit line breaks. An empty label yields a
// single empty line.
func (n Node) Lines() []string { return strings.Split(n.Label, LineBreak) }

// Edge is a declared "From depends on To" relation.
type Edge struct {
	From string
	To   string
}

// DAG stores nodes in insertion order together with their declared
// dependencies. Insertion order is a topological order: a node can only
// depend on nodes inserted before it, so cycles cannot be expressed.
//
// The graph has two phases. While building, [DAG.Insert] adds nodes. The
// first reachability query (or an explicit [DAG.Finalize]) computes the
// dependency closure once and freezes the structure; later inserts fail with
// [ErrFinalized]. Styles and labels stay editable because they do not affect
// reachability.
//
// The zero value is not usable - use [New]. DAG is not safe for concurrent
// mutation; a finalized DAG may be queried from multiple goroutines.
type DAG struct {
	nodes     []*Node
	index     map[string]int
	reach     []bitset
	finalized bool
}

// New creates a graph containing only the ground node.
func New() *DAG {
	d := &DAG{index: make(map[string]int)}
	d.append(&Node{ID: Ground, Style: GroundStyle})
	return d
}

func (d *DAG) append(n *Node) {
	d.index[n.ID] = len(d.nodes)
	d.nodes = append(d.nodes, n)
}

// Insert adds a node with the given declared dependencies. An empty deps
// list is recorded as a single dependency on [Ground]. The style defaults to
// [DefaultStyle] and the label to the empty string; use [DAG.SetStyle] and
// [DAG.SetLabel] to override them.
//
// Insert returns [ErrDuplicateNode] if id is already present,
// [ErrUnknownDependency] if any dependency is not, and [ErrFinalized] after
// the graph has been finalized. A failed insert leaves the graph unchanged.
func (d *DAG) Insert(id string, deps []string) error {
	return d.Add(Node{ID: id, Deps: deps})
}

// Add inserts n, keeping its Style and Label. It applies the same rules and
// defaults as [DAG.Insert].
func (d *DAG) Add(n Node) error {
	if d.finalized {
		return ErrFinalized
	}
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.index[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	for _, dep := range n.Deps {
		if _, ok := d.index[dep]; !ok {
			return fmt.Errorf("%w: %s (for %s)", ErrUnknownDependency, dep, n.ID)
		}
	}
	if len(n.Deps) == 0 {
		n.Deps = []string{Ground}
	} else {
		n.Deps = slices.Clone(n.Deps)
	}
	if n.Style == "" {
		n.Style = DefaultStyle
	}
	d.append(&n)
	return nil
}

// SetStyle replaces the style tag of a node.
func (d *DAG) SetStyle(id, style string) error {
	n, err := d.lookup(id)
	if err != nil {
		return err
	}
	n.Style = style
	return nil
}

// SetLabel replaces the label of a node.
func (d *DAG) SetLabel(id, label string) error {
	n, err := d.lookup(id)
	if err != nil {
		return err
	}
	n.Label = label
	return nil
}

func (d *DAG) lookup(id string) (*Node, error) {
	i, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return d.nodes[i], nil
}

// Dependencies returns a copy of the declared (not transitive) dependencies
// of id, or [ErrUnknownNode].
func (d *DAG) Dependencies(id string) ([]string, error) {
	n, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.Deps), nil
}

// Node returns a copy of the node with the given ID.
func (d *DAG) Node(id string) (Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return Node{}, false
	}
	n := *d.nodes[i]
	n.Deps = slices.Clone(n.Deps)
	return n, true
}

// Nodes returns copies of all nodes in insertion order. The ground node is
// always first.
func (d *DAG) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = *n
		out[i].Deps = slices.Clone(n.Deps)
	}
	return out
}

// IDs returns all node IDs in insertion order.
func (d *DAG) IDs() []string {
	ids := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Edges returns every declared edge in insertion order, including the
// implicit edges to the ground node.
func (d *DAG) Edges() []Edge {
	var edges []Edge
	for _, n := range d.nodes {
		for _, dep := range n.Deps {
			edges = append(edges, Edge{From: n.ID, To: dep})
		}
	}
	return edges
}

// NodeCount returns the number of nodes, ground included.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of declared edges.
func (d *DAG) EdgeCount() int {
	count := 0
	for _, n := range d.nodes {
		count += len(n.Deps)
	}
	return count
}

// Finalized reports whether the dependency closure has been computed.
func (d *DAG) Finalized() bool { return d.finalized }
