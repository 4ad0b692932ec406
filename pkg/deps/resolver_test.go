package deps

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/boxtower/pkg/boxfile"
	"github.com/matzehuels/boxtower/pkg/integrations"
)

// fakeRegistry serves a fixed dependency table and records lookups.
type fakeRegistry struct {
	mu      sync.Mutex
	deps    map[string][]string
	failing map[string]bool
	fetched []string
}

func (f *fakeRegistry) Fetch(ctx context.Context, name string, refresh bool) (*Package, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, name)
	f.mu.Unlock()

	if f.failing[name] {
		return nil, integrations.ErrNetwork
	}
	deps, ok := f.deps[name]
	if !ok {
		return nil, integrations.ErrNotFound
	}
	return &Package{Name: name, Version: "1.0.0", Dependencies: deps}, nil
}

func resolve(t *testing.T, f *fakeRegistry, root string, opts Options) string {
	t.Helper()
	g, err := NewRegistry("test", f).Resolve(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("Resolve(%s) error: %v", root, err)
	}
	return boxfile.Format(g)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		deps map[string][]string
		opts Options
		want string
	}{
		{
			name: "dependencies first",
			deps: map[string][]string{"a": {"b", "c"}, "b": {"c"}, "c": nil},
			want: "c()\nb(c)\na(b, c)\n",
		},
		{
			name: "shared dependency once",
			deps: map[string][]string{"a": {"b", "c"}, "b": {"d"}, "c": {"d"}, "d": nil},
			want: "d()\nb(d)\nc(d)\na(b, c)\n",
		},
		{
			name: "cycle edge dropped",
			deps: map[string][]string{"a": {"b"}, "b": {"a"}},
			want: "b()\na(b)\n",
		},
		{
			name: "depth limit",
			deps: map[string][]string{"a": {"b"}, "b": {"c"}, "c": nil},
			opts: Options{MaxDepth: 1},
			want: "b()\na(b)\n",
		},
		{
			name: "node limit",
			deps: map[string][]string{"a": {"b", "c", "d"}, "b": {"e"}, "c": {"f"}, "d": nil, "e": nil, "f": nil},
			opts: Options{MaxNodes: 2},
			want: "e()\nb(e)\nc()\nd()\na(b, c, d)\n",
		},
		{
			name: "renamed packages keep their name as label",
			deps: map[string][]string{"r": {"a.b", "a_b"}, "a.b": nil, "a_b": nil},
			want: "a_b(): a.b\na_b-2(): a_b\nr(a_b, a_b-2)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := "a"
			if _, ok := tt.deps[root]; !ok {
				root = "r"
			}
			got := resolve(t, &fakeRegistry{deps: tt.deps}, root, tt.opts)
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestResolveLimitsSkipFetches(t *testing.T) {
	f := &fakeRegistry{deps: map[string][]string{"a": {"b"}, "b": {"c"}, "c": nil}}
	resolve(t, f, "a", Options{MaxDepth: 1, Workers: 1})
	if !slices.Equal(f.fetched, []string{"a"}) {
		t.Errorf("fetched %v, want [a]", f.fetched)
	}
}

func TestResolveFailedDependencyIsLeaf(t *testing.T) {
	f := &fakeRegistry{
		deps:    map[string][]string{"a": {"b", "gone"}, "b": {"c"}, "c": nil},
		failing: map[string]bool{"b": true},
	}
	if got, want := resolve(t, f, "a", Options{}), "b()\ngone()\na(b, gone)\n"; got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestResolveRootErrors(t *testing.T) {
	tests := []struct {
		name string
		root string
		f    *fakeRegistry
		want error
	}{
		{"blank name", "  ", &fakeRegistry{}, ErrEmptyName},
		{"unknown root", "nope", &fakeRegistry{}, integrations.ErrNotFound},
		{"registry down", "a", &fakeRegistry{failing: map[string]bool{"a": true}}, integrations.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry("test", tt.f).Resolve(context.Background(), tt.root, Options{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.want)
			}
			if tt.want != ErrEmptyName && !strings.HasPrefix(err.Error(), "test: ") {
				t.Errorf("error %q does not name the registry", err)
			}
		})
	}
}

func TestResolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := FetcherFunc(func(ctx context.Context, name string, refresh bool) (*Package, error) {
		return nil, ctx.Err()
	})
	if _, err := NewRegistry("test", f).Resolve(ctx, "a", Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestResolveParses(t *testing.T) {
	f := &fakeRegistry{deps: map[string][]string{
		"@scope/app":  {"left-pad", "@scope/util"},
		"@scope/util": {"left-pad"},
		"left-pad":    nil,
	}}
	out := resolve(t, f, "@scope/app", Options{})
	g, err := boxfile.ParseString(out)
	if err != nil {
		t.Fatalf("output does not parse: %v\n%s", err, out)
	}
	if got := boxfile.Format(g); got != out {
		t.Errorf("reformatted:\n%s\nwant:\n%s", got, out)
	}
	if n, ok := g.Node("_scope_app"); !ok || n.Label != "@scope/app" {
		t.Errorf("root node = %+v, %v", n, ok)
	}
}

func TestBoxName(t *testing.T) {
	tests := map[string]string{
		"express":      "express",
		"@babel/core":  "_babel_core",
		"openssl@3":    "openssl_3",
		"lodash.merge": "lodash_merge",
	}
	for in, want := range tests {
		if got := BoxName(in); got != want {
			t.Errorf("BoxName(%q) = %q, want %q", in, got, want)
		}
	}
}
