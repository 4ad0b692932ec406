package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/boxtower/pkg/boxfile"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/observability"
)

// Parse reads opts.Input and finalizes the graph, so every later stage
// sees a frozen structure.
func Parse(ctx context.Context, opts Options) (*dag.DAG, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Source)
	start := time.Now()

	g, err := boxfile.Parse(bytes.NewReader(opts.Input))
	if err == nil {
		g.Finalize()
	}

	count := 0
	if g != nil {
		count = g.NodeCount()
	}
	hooks.OnParseComplete(ctx, opts.Source, count, time.Since(start), err)
	return g, err
}

// GraphHash returns the content hash of g's canonical BOX text. Documents
// that differ only in comments, blank lines or spacing hash the same.
func GraphHash(g *dag.DAG) string {
	return cache.Hash([]byte(boxfile.Format(g)))
}
