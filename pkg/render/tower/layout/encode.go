package layout

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// store is a growing CNF constraint store backed by an incremental SAT
// solver. Clauses are only ever added.
//
// A dedicated literal top is asserted true. Clauses containing top are
// dropped and occurrences of its negation are removed before the clause
// reaches the solver, so the order encoding below can use it for constant
// comparisons. An empty clause makes the store permanently unsatisfiable.
type store struct {
	sat     *gini.Gini
	last    z.Var
	used    z.Var
	top     z.Lit
	clauses int
	buf     []z.Lit
}

func newStore() *store {
	s := &store{sat: gini.New()}
	s.top = s.lit()
	s.emit([]z.Lit{s.top})
	return s
}

func (s *store) lit() z.Lit {
	s.last++
	return s.last.Pos()
}

func (s *store) add(ms ...z.Lit) {
	s.buf = s.buf[:0]
	for _, m := range ms {
		switch m {
		case s.top:
			return
		case s.top.Not():
			continue
		}
		s.buf = append(s.buf, m)
	}
	if len(s.buf) == 0 {
		s.buf = append(s.buf, s.top.Not())
	}
	s.emit(s.buf)
}

func (s *store) emit(ms []z.Lit) {
	for _, m := range ms {
		s.sat.Add(m)
		s.used = max(s.used, m.Var())
	}
	s.sat.Add(z.LitNull)
	s.clauses++
}

// intVar is an order-encoded integer in [lo, hi]: ge[k-lo-1] is true iff
// the value is at least k, for lo < k <= hi.
type intVar struct {
	lo, hi int
	ge     []z.Lit
}

func (s *store) newInt(lo, hi int) intVar {
	if hi < lo {
		s.add()
		hi = lo
	}
	v := intVar{lo: lo, hi: hi, ge: make([]z.Lit, hi-lo)}
	for i := range v.ge {
		v.ge[i] = s.lit()
	}
	for i := 1; i < len(v.ge); i++ {
		s.add(v.ge[i].Not(), v.ge[i-1])
	}
	return v
}

// geq returns a literal equivalent to v >= k.
func (s *store) geq(v intVar, k int) z.Lit {
	switch {
	case k <= v.lo:
		return s.top
	case k > v.hi:
		return s.top.Not()
	}
	return v.ge[k-v.lo-1]
}

// truth reads m from the current model. Literals that never reached the
// solver are unconstrained and read as false.
func (s *store) truth(m z.Lit) bool {
	return m.Var() <= s.used && s.sat.Value(m)
}

// value decodes v from the current model.
func (s *store) value(v intVar) int {
	for i, m := range v.ge {
		if !s.truth(m) {
			return v.lo + i
		}
	}
	return v.hi
}

// lessEq adds guard → a + d <= b. Pass s.top as guard for an unconditional
// constraint.
func (s *store) lessEq(guard z.Lit, a intVar, d int, b intVar) {
	for k := a.lo; k <= a.hi; k++ {
		s.add(guard.Not(), s.geq(a, k).Not(), s.geq(b, k+d))
	}
}

// equal adds a == b.
func (s *store) equal(a, b intVar) {
	s.lessEq(s.top, a, 0, b)
	s.lessEq(s.top, b, 0, a)
}

// pin adds v == k.
func (s *store) pin(v intVar, k int) {
	s.add(s.geq(v, k))
	s.add(s.geq(v, k+1).Not())
}

// atMost adds v <= k.
func (s *store) atMost(v intVar, k int) {
	s.add(s.geq(v, k+1).Not())
}

// oneOf adds the disjunction of the guarded constraints built by each
// function. Each function receives a fresh selector literal.
func (s *store) oneOf(builders ...func(sel z.Lit)) {
	sels := make([]z.Lit, len(builders))
	for i, build := range builders {
		sels[i] = s.lit()
		build(sels[i])
	}
	s.add(sels...)
}

// diff returns w with w >= a - b and w in [lo, hi].
func (s *store) diff(a, b intVar, lo, hi int) intVar {
	w := s.newInt(lo, hi)
	for k := a.lo; k <= a.hi; k++ {
		for i := b.lo; i <= b.hi; i++ {
			if k-i <= w.lo {
				break
			}
			s.add(s.geq(a, k).Not(), s.geq(b, i+1), s.geq(w, k-i))
		}
	}
	return w
}

// sum returns c with c >= a + b, with c capped at limit. Combinations that
// would exceed the cap are forbidden outright.
func (s *store) sum(a, b intVar, limit int) intVar {
	c := s.newInt(a.lo+b.lo, min(a.hi+b.hi, limit))
	for i := a.lo; i <= a.hi; i++ {
		for j := b.lo; j <= b.hi; j++ {
			if i+j <= c.lo {
				continue
			}
			s.add(s.geq(a, i).Not(), s.geq(b, j).Not(), s.geq(c, i+j))
			if i+j > c.hi {
				break
			}
		}
	}
	return c
}

// total folds vs pairwise into a balanced adder tree.
func (s *store) total(vs []intVar, limit int) intVar {
	for len(vs) > 1 {
		next := make([]intVar, 0, (len(vs)+1)/2)
		for i := 0; i+1 < len(vs); i += 2 {
			next = append(next, s.sum(vs[i], vs[i+1], limit))
		}
		if len(vs)%2 == 1 {
			next = append(next, vs[len(vs)-1])
		}
		vs = next
	}
	s.atMost(vs[0], limit)
	return vs[0]
}
