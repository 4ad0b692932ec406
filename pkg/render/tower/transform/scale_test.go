package transform

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

func sampleLayout() (*dag.DAG, layout.Layout) {
	g := dag.New()
	_ = g.Insert("a", nil)
	_ = g.Insert("b", nil)
	_ = g.Insert("c", []string{"a", "b"})
	_ = g.SetStyle("c", "red")
	_ = g.SetLabel("c", `two\lines`)
	l := layout.Layout{Rects: []layout.Rect{
		{NodeID: dag.Ground, X0: 0, Y0: 0, X1: 2, Y1: 1},
		{NodeID: "a", X0: 0, Y0: -1, X1: 1, Y1: 0},
		{NodeID: "b", X0: 1, Y0: -1, X1: 2, Y1: 0},
		{NodeID: "c", X0: 0, Y0: -2, X1: 2, Y1: -1},
	}}
	return g, l
}

func TestJitterDeterministic(t *testing.T) {
	a := Jitter(7, 20, 10)
	b := Jitter(7, 20, 10)
	if !slices.Equal(a, b) {
		t.Fatal("same seed produced different offsets")
	}
	if len(a) != 40 {
		t.Fatalf("len = %d, want 40", len(a))
	}
	for _, j := range a {
		if j < 0 || j >= 10 {
			t.Fatalf("offset %d out of [0, 10)", j)
		}
	}
	if slices.Equal(a, Jitter(8, 20, 10)) {
		t.Error("different seeds produced identical offsets")
	}
	for _, j := range Jitter(7, 5, 0) {
		if j != 0 {
			t.Fatal("zero bound should give zero offsets")
		}
	}
}

func TestScaleNoJitter(t *testing.T) {
	g, l := sampleLayout()
	opts := DefaultOptions()
	opts.Jitter = 0

	tw, err := Scale(g, l, opts)
	if err != nil {
		t.Fatalf("Scale() error: %v", err)
	}
	if len(tw.Blocks) != 4 {
		t.Fatalf("blocks = %d, want 4", len(tw.Blocks))
	}

	c, ok := tw.Block("c")
	if !ok {
		t.Fatal("block c missing")
	}
	if c.Left != 10 || c.Right != 310 || c.Top != -100 || c.Bottom != -50 {
		t.Errorf("c = %+v", c)
	}
	if c.Style != "red" || c.Label != `two\lines` {
		t.Errorf("c style/label = %q/%q", c.Style, c.Label)
	}
	if got := c.Lines(); len(got) != 2 {
		t.Errorf("Lines() = %v", got)
	}

	ground := tw.Blocks[0]
	if ground.NodeID != dag.Ground || ground.Style != dag.GroundStyle || ground.Label != "" {
		t.Errorf("ground = %+v", ground)
	}
	a, _ := tw.Block("a")
	if a.Style != dag.DefaultStyle || a.Label != "a" {
		t.Errorf("a style/label = %q/%q", a.Style, a.Label)
	}
}

func TestScaleKeepsRelations(t *testing.T) {
	g, l := sampleLayout()
	for seed := range uint64(50) {
		opts := DefaultOptions()
		opts.Seed = seed
		tw, err := Scale(g, l, opts)
		if err != nil {
			t.Fatalf("Scale() error: %v", err)
		}
		for i, ra := range l.Rects {
			ba := tw.Blocks[i]
			if ba.Width() <= 0 {
				t.Fatalf("seed %d: %s has width %v", seed, ba.NodeID, ba.Width())
			}
			for j, rb := range l.Rects {
				if i == j {
					continue
				}
				bb := tw.Blocks[j]
				xOverlap := ba.Left < bb.Right && bb.Left < ba.Right
				if xOverlap != ra.XOverlaps(rb) {
					t.Errorf("seed %d: x overlap of %s/%s = %v, grid says %v",
						seed, ba.NodeID, bb.NodeID, xOverlap, ra.XOverlaps(rb))
				}
			}
		}
	}
}

func TestScaleSeedReproducible(t *testing.T) {
	g, l := sampleLayout()
	a, _ := Scale(g, l, DefaultOptions())
	b, _ := Scale(g, l, DefaultOptions())
	if !slices.Equal(a.Blocks, b.Blocks) {
		t.Error("same seed gave different towers")
	}
	if a.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", a.Seed, DefaultSeed)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"no jitter", func(o *Options) { o.Jitter = 0 }, false},
		{"jitter exceeds inset", func(o *Options) { o.Jitter = 11 }, true},
		{"zero scale", func(o *Options) { o.ScaleY = 0 }, true},
		{"negative inset", func(o *Options) { o.Inset = -1; o.Jitter = 0 }, true},
		{"too narrow", func(o *Options) { o.ScaleX = 30 }, true},
		{"just wide enough", func(o *Options) { o.ScaleX = 31 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("error %v is not ErrInvalidOptions", err)
			}
		})
	}

	g, l := sampleLayout()
	if _, err := Scale(g, l, Options{}); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("Scale() with zero options error = %v", err)
	}
}
