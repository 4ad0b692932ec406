package layout

import (
	"testing"

	"github.com/go-air/gini/z"
)

func TestStorePinAndDecode(t *testing.T) {
	for _, k := range []int{-3, 0, 4, 7} {
		st := newStore()
		v := st.newInt(-3, 7)
		st.pin(v, k)
		if res := st.sat.Solve(); res != sat {
			t.Fatalf("pin(%d): Solve() = %d", k, res)
		}
		if got := st.value(v); got != k {
			t.Errorf("value = %d, want %d", got, k)
		}
	}
}

func TestStoreConstraints(t *testing.T) {
	tests := []struct {
		name  string
		build func(st *store)
		want  int
	}{
		{
			name: "lessEq holds",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 3)
				st.lessEq(st.top, a, 2, b)
				st.atMost(b, 5)
			},
			want: sat,
		},
		{
			name: "lessEq violated",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 3)
				st.lessEq(st.top, a, 2, b)
				st.atMost(b, 4)
			},
			want: unsat,
		},
		{
			name: "disabled guard",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				g := st.lit()
				st.pin(a, 9)
				st.pin(b, 0)
				st.lessEq(g, a, 0, b)
			},
			want: sat,
		},
		{
			name: "oneOf needs an alternative",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 5)
				st.pin(b, 5)
				st.oneOf(
					func(s z.Lit) { st.lessEq(s, a, 1, b) },
					func(s z.Lit) { st.lessEq(s, b, 1, a) },
				)
			},
			want: unsat,
		},
		{
			name: "sum exact",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 3)
				st.pin(b, 4)
				c := st.sum(a, b, 100)
				st.atMost(c, 7)
			},
			want: sat,
		},
		{
			name: "sum too small",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 3)
				st.pin(b, 4)
				c := st.sum(a, b, 100)
				st.atMost(c, 6)
			},
			want: unsat,
		},
		{
			name: "sum cap",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 3)
				st.pin(b, 4)
				st.sum(a, b, 6)
			},
			want: unsat,
		},
		{
			name: "diff",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 7)
				st.pin(b, 2)
				w := st.diff(a, b, 0, 10)
				st.atMost(w, 5)
			},
			want: sat,
		},
		{
			name: "diff too small",
			build: func(st *store) {
				a, b := st.newInt(0, 10), st.newInt(0, 10)
				st.pin(a, 7)
				st.pin(b, 2)
				w := st.diff(a, b, 0, 10)
				st.atMost(w, 4)
			},
			want: unsat,
		},
		{
			name: "empty domain",
			build: func(st *store) {
				st.newInt(3, 2)
			},
			want: unsat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newStore()
			tt.build(st)
			if got := st.sat.Solve(); got != tt.want {
				t.Errorf("Solve() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	st := newStore()
	var vs []intVar
	for _, k := range []int{1, 2, 3, 4, 5} {
		v := st.newInt(0, 6)
		st.pin(v, k)
		vs = append(vs, v)
	}
	total := st.total(vs, 100)
	if res := st.sat.Solve(); res != sat {
		t.Fatalf("Solve() = %d", res)
	}
	if got := st.value(total); got < 15 {
		t.Errorf("total = %d, want >= 15", got)
	}
	st.atMost(total, 14)
	if res := st.sat.Solve(); res != unsat {
		t.Errorf("Solve() after bound 14 = %d, want unsat", res)
	}
}
