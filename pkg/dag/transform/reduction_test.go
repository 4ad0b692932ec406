package transform

import (
	"slices"
	"testing"

	"github.com/matzehuels/boxtower/pkg/dag"
)

func build(t *testing.T, nodes ...[]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, n := range nodes {
		if err := g.Insert(n[0], n[1:]); err != nil {
			t.Fatalf("Insert(%s): %v", n[0], err)
		}
	}
	return g
}

func TestTransitiveReduction(t *testing.T) {
	tests := []struct {
		name  string
		nodes [][]string
		want  []dag.Edge
	}{
		{
			name:  "single",
			nodes: [][]string{{"a"}},
			want:  []dag.Edge{{From: "a", To: dag.Ground}},
		},
		{
			name:  "chain with shortcut",
			nodes: [][]string{{"a"}, {"b", "a"}, {"c", "b"}, {"d", "a", "c"}},
			want: []dag.Edge{
				{From: "a", To: dag.Ground},
				{From: "b", To: "a"},
				{From: "c", To: "b"},
				{From: "d", To: "c"},
			},
		},
		{
			name:  "explicit ground is redundant",
			nodes: [][]string{{"a"}, {"b", "a", dag.Ground}},
			want: []dag.Edge{
				{From: "a", To: dag.Ground},
				{From: "b", To: "a"},
			},
		},
		{
			name:  "repeated declaration",
			nodes: [][]string{{"a"}, {"b", "a", "a"}},
			want: []dag.Edge{
				{From: "a", To: dag.Ground},
				{From: "b", To: "a"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.nodes...)
			if got := TransitiveReduction(g); !slices.Equal(got, tt.want) {
				t.Errorf("TransitiveReduction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransitiveEdges(t *testing.T) {
	g := build(t, []string{"a"}, []string{"b", "a"}, []string{"c", "b"}, []string{"d", "a", "c"})
	want := []dag.Edge{{From: "d", To: "a"}}
	if got := TransitiveEdges(g); !slices.Equal(got, want) {
		t.Errorf("TransitiveEdges() = %v, want %v", got, want)
	}
	total := len(TransitiveReduction(g)) + len(TransitiveEdges(g))
	if total != g.EdgeCount() {
		t.Errorf("reduction + transitive = %d, want %d", total, g.EdgeCount())
	}
}

func TestLevels(t *testing.T) {
	g := build(t, []string{"a"}, []string{"x"}, []string{"b", "a"}, []string{"c", "b", "x"})
	want := map[string]int{dag.Ground: 0, "a": 1, "x": 1, "b": 2, "c": 3}
	got := Levels(g)
	for id, l := range want {
		if got[id] != l {
			t.Errorf("Levels[%s] = %d, want %d", id, got[id], l)
		}
	}
	if h := Height(g); h != 3 {
		t.Errorf("Height() = %d, want 3", h)
	}
}
