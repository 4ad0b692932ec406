// Package observability lets a binary watch boxtower at work without the
// libraries depending on a metrics or tracing backend.
//
// Four hook sets exist: [PipelineHooks] for parse, layout and render
// stages, [SolverHooks] for the SAT tightening loop, [CacheHooks] for
// layout and artifact lookups and [HTTPHooks] for the API server. Each
// defaults to a no-op. A binary installs its own once at startup:
//
//	observability.SetSolverHooks(solverMetrics{})
//
// and the libraries report through the accessors:
//
//	observability.Solver().OnIteration(ctx, n, bound, perimeter, sat, elapsed)
//
// Only binaries install hooks; libraries only read them.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes the stages of a pipeline run. vizType is "tower"
// or "nodelink".
type PipelineHooks interface {
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)
	OnLayoutStart(ctx context.Context, vizType string, nodeCount int)
	OnLayoutComplete(ctx context.Context, vizType string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// SolverHooks observes [layout.Solve].
type SolverHooks interface {
	// OnSolveStart fires once the constraint store is built.
	OnSolveStart(ctx context.Context, nodeCount, vars, clauses int)

	// OnIteration fires after every check of the tightening loop. perimeter
	// is zero when sat is false.
	OnIteration(ctx context.Context, iteration, bound, perimeter int, sat bool, elapsed time.Duration)

	OnSolveComplete(ctx context.Context, iterations, perimeter int, optimal bool, duration time.Duration, err error)
}

// CacheHooks observes cache lookups. keyType is "layout" or the artifact
// format.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes requests served by the API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, int, int, int)                           {}
func (NoopSolverHooks) OnIteration(context.Context, int, int, int, bool, time.Duration)       {}
func (NoopSolverHooks) OnSolveComplete(context.Context, int, int, bool, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one installed hook set. The boxing keeps the stored dynamic
// type stable for atomic.Value.
type slot[H any] struct{ h H }

var (
	pipelineSlot atomic.Value
	solverSlot   atomic.Value
	cacheSlot    atomic.Value
	httpSlot     atomic.Value
)

func init() { Reset() }

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.Store(slot[PipelineHooks]{h})
	}
}

// SetSolverHooks installs h. A nil h is ignored.
func SetSolverHooks(h SolverHooks) {
	if h != nil {
		solverSlot.Store(slot[SolverHooks]{h})
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.Store(slot[CacheHooks]{h})
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.Store(slot[HTTPHooks]{h})
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.Load().(slot[PipelineHooks]).h }
func Solver() SolverHooks     { return solverSlot.Load().(slot[SolverHooks]).h }
func Cache() CacheHooks       { return cacheSlot.Load().(slot[CacheHooks]).h }
func HTTP() HTTPHooks         { return httpSlot.Load().(slot[HTTPHooks]).h }

// Reset reinstalls the no-op hooks.
func Reset() {
	pipelineSlot.Store(slot[PipelineHooks]{NoopPipelineHooks{}})
	solverSlot.Store(slot[SolverHooks]{NoopSolverHooks{}})
	cacheSlot.Store(slot[CacheHooks]{NoopCacheHooks{}})
	httpSlot.Store(slot[HTTPHooks]{NoopHTTPHooks{}})
}
