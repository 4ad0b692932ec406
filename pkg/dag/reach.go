package dag

import "fmt"

// Relation classifies how a candidate node relates to a node's dependencies.
type Relation int

const (
	// Unrelated means the candidate is not reachable from the node.
	Unrelated Relation = iota
	// Direct means the candidate is reachable and no other declared
	// dependency of the node reaches it. Direct dependencies are the boxes a
	// node rests on.
	Direct
	// Transitive means the candidate is reachable through at least one
	// other declared dependency. Transitive dependencies are not drawn.
	Transitive
)

func (r Relation) String() string {
	switch r {
	case Direct:
		return "direct"
	case Transitive:
		return "transitive"
	default:
		return "unrelated"
	}
}

type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int)      { b[i/64] |= 1 << (uint(i) % 64) }
func (b bitset) has(i int) bool { return b[i/64]&(1<<(uint(i)%64)) != 0 }

func (b bitset) union(o bitset) {
	for i := range o {
		b[i] |= o[i]
	}
}

// Finalize computes the reachability closure and freezes the node set.
// It is called implicitly by the first query and is idempotent.
//
// Because insertion order is topological, a single forward pass suffices:
// when node i is visited, the closures of all its dependencies are already
// complete.
func (d *DAG) Finalize() {
	if d.finalized {
		return
	}
	d.reach = make([]bitset, len(d.nodes))
	for i, n := range d.nodes {
		r := newBitset(len(d.nodes))
		for _, dep := range n.Deps {
			j := d.index[dep]
			r.set(j)
			r.union(d.reach[j])
		}
		d.reach[i] = r
	}
	d.finalized = true
}

func (d *DAG) pair(node, candidate string) (int, int, error) {
	i, ok := d.index[node]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownNode, node)
	}
	j, ok := d.index[candidate]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownNode, candidate)
	}
	d.Finalize()
	return i, j, nil
}

// IsReachable reports whether candidate can be reached from node by
// following one or more declared dependency edges. A node never reaches
// itself.
func (d *DAG) IsReachable(node, candidate string) (bool, error) {
	i, j, err := d.pair(node, candidate)
	if err != nil {
		return false, err
	}
	return d.reach[i].has(j), nil
}

// IsDirectDependency reports whether candidate is reachable from node and
// not reachable through any other declared dependency of node.
func (d *DAG) IsDirectDependency(node, candidate string) (bool, error) {
	rel, err := d.Classify(node, candidate)
	return rel == Direct, err
}

// Classify returns the [Relation] of candidate with respect to node.
func (d *DAG) Classify(node, candidate string) (Relation, error) {
	i, j, err := d.pair(node, candidate)
	if err != nil {
		return Unrelated, err
	}
	return d.classify(i, j), nil
}

func (d *DAG) classify(i, j int) Relation {
	if !d.reach[i].has(j) {
		return Unrelated
	}
	for _, dep := range d.nodes[i].Deps {
		k := d.index[dep]
		if k != j && d.reach[k].has(j) {
			return Transitive
		}
	}
	return Direct
}

// DirectDependencies returns the direct dependencies of id in declaration
// order, without duplicates.
func (d *DAG) DirectDependencies(id string) ([]string, error) {
	i, _, err := d.pair(id, id)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := make(map[int]bool)
	for _, dep := range d.nodes[i].Deps {
		j := d.index[dep]
		if seen[j] {
			continue
		}
		seen[j] = true
		if d.classify(i, j) == Direct {
			out = append(out, dep)
		}
	}
	return out, nil
}

// DirectMatrix returns m with m[i][j] true when node j is a direct
// dependency of node i, indexed by insertion order. It is the predicate the
// layout solver consumes.
func (d *DAG) DirectMatrix() [][]bool {
	d.Finalize()
	m := make([][]bool, len(d.nodes))
	for i := range d.nodes {
		m[i] = make([]bool, len(d.nodes))
		for j := range d.nodes {
			m[i][j] = d.classify(i, j) == Direct
		}
	}
	return m
}
