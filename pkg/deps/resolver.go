package deps

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxtower/pkg/dag"
)

// ErrEmptyName is returned when the root package name is blank.
var ErrEmptyName = errors.New("package name is empty")

// Registry crawls one package registry.
type Registry struct {
	name    string
	fetcher Fetcher
}

// NewRegistry names a fetcher for log output.
func NewRegistry(name string, f Fetcher) *Registry {
	return &Registry{name: name, fetcher: f}
}

func (r *Registry) Name() string { return r.name }

// Resolve crawls the dependencies of root and returns them as a graph. A
// failure to fetch root is returned; failures further down are logged and
// the package is drawn without dependencies.
func (r *Registry) Resolve(ctx context.Context, root string, opts Options) (*dag.DAG, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, ErrEmptyName
	}
	opts = opts.WithDefaults()

	tree, err := r.crawl(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	b := newBuilder(tree, opts.Logger)
	b.visit(root)
	opts.Logger.Debug("resolved", "registry", r.name, "root", root, "packages", len(tree), "dropped_cycle_edges", b.dropped)
	return b.g, nil
}

// crawl maps every package reached from root to its dependency names. A
// nil entry is a leaf: not fetched because of a limit, or failed.
func (r *Registry) crawl(ctx context.Context, root string, opts Options) (map[string][]string, error) {
	tree := map[string][]string{}
	seen := map[string]bool{root: true}
	level := []string{root}
	fetched := 0

	for depth := 0; len(level) > 0; depth++ {
		if depth >= opts.MaxDepth || fetched >= opts.MaxNodes {
			for _, name := range level {
				tree[name] = nil
			}
			break
		}
		if room := opts.MaxNodes - fetched; len(level) > room {
			for _, name := range level[room:] {
				tree[name] = nil
			}
			opts.Logger.Warn("package limit reached", "registry", r.name, "max_nodes", opts.MaxNodes, "leaves", len(level)-room)
			level = level[:room]
		}

		pkgs := make([]*Package, len(level))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, name := range level {
			g.Go(func() error {
				p, err := r.fetcher.Fetch(gctx, name, opts.Refresh)
				switch {
				case err == nil:
					pkgs[i] = p
				case ctx.Err() != nil:
					return ctx.Err()
				case name == root:
					return fmt.Errorf("%s: %w", r.name, err)
				default:
					opts.Logger.Warn("fetch failed", "registry", r.name, "package", name, "error", err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		fetched += len(level)

		var next []string
		for i, name := range level {
			if pkgs[i] == nil {
				tree[name] = nil
				continue
			}
			tree[name] = pkgs[i].Dependencies
			opts.Logger.Debug("fetched", "registry", r.name, "package", name, "version", pkgs[i].Version, "deps", len(pkgs[i].Dependencies), "depth", depth)
			for _, dep := range pkgs[i].Dependencies {
				if !seen[dep] {
					seen[dep] = true
					next = append(next, dep)
				}
			}
		}
		level = next
	}
	return tree, nil
}

const (
	unvisited = iota
	visiting
	done
)

// builder inserts packages depth-first so dependencies precede dependents.
type builder struct {
	g       *dag.DAG
	tree    map[string][]string
	state   map[string]int
	ids     map[string]string
	taken   map[string]bool
	logger  *log.Logger
	dropped int
}

func newBuilder(tree map[string][]string, logger *log.Logger) *builder {
	return &builder{
		g:      dag.New(),
		tree:   tree,
		state:  make(map[string]int, len(tree)),
		ids:    make(map[string]string, len(tree)),
		taken:  make(map[string]bool, len(tree)),
		logger: logger,
	}
}

func (b *builder) visit(name string) {
	b.state[name] = visiting

	var deps []string
	for _, dep := range b.tree[name] {
		switch b.state[dep] {
		case visiting:
			b.dropped++
			b.logger.Warn("dependency cycle, edge dropped", "from", name, "to", dep)
			continue
		case unvisited:
			b.visit(dep)
		}
		if id := b.ids[dep]; !slices.Contains(deps, id) {
			deps = append(deps, id)
		}
	}

	n := dag.Node{ID: b.idFor(name), Deps: deps}
	if n.ID != name {
		n.Label = name
	}
	// ids are unique and every dependency is already inserted.
	_ = b.g.Add(n)
	b.state[name] = done
}

// idFor returns a BOX name for a registry name, replacing characters
// outside [A-Za-z0-9_-] and numbering clashes.
func (b *builder) idFor(name string) string {
	id := BoxName(name)
	for n := 2; b.taken[id]; n++ {
		id = fmt.Sprintf("%s-%d", BoxName(name), n)
	}
	b.taken[id] = true
	b.ids[name] = id
	return id
}

// BoxName maps a registry name onto the BOX name alphabet.
func BoxName(name string) string {
	out := []byte(name)
	for i, c := range out {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-') {
			out[i] = '_'
		}
	}
	return string(out)
}
