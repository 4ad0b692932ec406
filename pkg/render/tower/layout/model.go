package layout

import (
	"github.com/go-air/gini/z"

	"github.com/matzehuels/boxtower/pkg/dag"
)

type boxVars struct {
	x0, y0, x1, y1 intVar
}

// model is the constraint encoding of one tower: four coordinates per node,
// the width and height terms of the objective and their capped sum.
type model struct {
	st     *store
	ids    []string
	boxes  []boxVars
	total  intVar
	budget int
}

// grid resolves the coordinate domains for g.
func grid(nodes []dag.Node, opts Options) (width, height, ground int) {
	width = opts.GridWidth
	if width == 0 {
		width = 2 * len(nodes)
	}
	ground = opts.HeightPolicy.MinHeight(len(nodes[0].Lines()))
	height = opts.GridHeight
	if height == 0 {
		for _, n := range nodes[1:] {
			height += opts.HeightPolicy.MinHeight(len(n.Lines()))
		}
	}
	return width, max(height, 1), ground
}

func newModel(g *dag.DAG, opts Options) *model {
	nodes := g.Nodes()
	direct := g.DirectMatrix()
	gw, gh, ground := grid(nodes, opts)

	st := newStore()
	m := &model{
		st:     st,
		ids:    make([]string, len(nodes)),
		boxes:  make([]boxVars, len(nodes)),
		budget: BudgetPerNode * len(nodes),
	}

	terms := make([]intVar, 0, 2*len(nodes))
	for i, n := range nodes {
		m.ids[i] = n.ID
		minH := opts.HeightPolicy.MinHeight(len(n.Lines()))
		b := boxVars{
			x0: st.newInt(0, gw-1),
			x1: st.newInt(1, gw),
			y0: st.newInt(-gh, ground-1),
			y1: st.newInt(-gh+1, ground),
		}
		st.lessEq(st.top, b.x0, 1, b.x1)
		st.lessEq(st.top, b.y0, minH, b.y1)
		terms = append(terms,
			st.diff(b.x1, b.x0, 1, gw),
			st.diff(b.y1, b.y0, minH, gh+ground),
		)
		m.boxes[i] = b
	}

	// Ground top-left corner at the origin.
	st.pin(m.boxes[0].x0, 0)
	st.pin(m.boxes[0].y0, 0)

	for i := range m.boxes {
		for j := i + 1; j < len(m.boxes); j++ {
			m.disjoint(m.boxes[i], m.boxes[j])
		}
	}
	for i := range m.boxes {
		for j := range m.boxes {
			if i == j {
				continue
			}
			if direct[i][j] {
				m.restsOn(m.boxes[i], m.boxes[j])
			} else {
				m.notRestsOn(m.boxes[i], m.boxes[j])
			}
		}
	}

	m.total = st.total(terms, m.budget)
	return m
}

// disjoint: the x ranges or the y ranges of a and b do not overlap.
func (m *model) disjoint(a, b boxVars) {
	st := m.st
	st.oneOf(
		func(s z.Lit) { st.lessEq(s, a.x1, 0, b.x0) },
		func(s z.Lit) { st.lessEq(s, b.x1, 0, a.x0) },
		func(s z.Lit) { st.lessEq(s, a.y1, 0, b.y0) },
		func(s z.Lit) { st.lessEq(s, b.y1, 0, a.y0) },
	)
}

// restsOn: n.y1 == c.y0 and the x ranges overlap.
func (m *model) restsOn(n, c boxVars) {
	st := m.st
	st.equal(n.y1, c.y0)
	st.lessEq(st.top, n.x0, 1, c.x1)
	st.lessEq(st.top, c.x0, 1, n.x1)
}

func (m *model) notRestsOn(n, c boxVars) {
	st := m.st
	st.oneOf(
		func(s z.Lit) { st.lessEq(s, n.y1, 1, c.y0) },
		func(s z.Lit) { st.lessEq(s, c.y0, 1, n.y1) },
		func(s z.Lit) { st.lessEq(s, c.x1, 0, n.x0) },
		func(s z.Lit) { st.lessEq(s, n.x1, 0, c.x0) },
	)
}

// tighten forbids any total perimeter above bound.
func (m *model) tighten(bound int) {
	m.st.atMost(m.total, bound)
}

func (m *model) rects() []Rect {
	out := make([]Rect, len(m.boxes))
	for i, b := range m.boxes {
		out[i] = Rect{
			NodeID: m.ids[i],
			X0:     m.st.value(b.x0),
			Y0:     m.st.value(b.y0),
			X1:     m.st.value(b.x1),
			Y1:     m.st.value(b.y1),
		}
	}
	return out
}
