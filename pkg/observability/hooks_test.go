package observability

import (
	"context"
	"testing"
	"time"
)

type solverRecorder struct {
	NoopSolverHooks
	bounds []int
	done   bool
}

func (r *solverRecorder) OnIteration(_ context.Context, _, bound, _ int, _ bool, _ time.Duration) {
	r.bounds = append(r.bounds, bound)
}

func (r *solverRecorder) OnSolveComplete(context.Context, int, int, bool, time.Duration, error) {
	r.done = true
}

type cacheRecorder struct {
	NoopCacheHooks
	hits, misses []string
}

func (r *cacheRecorder) OnCacheHit(_ context.Context, k string)  { r.hits = append(r.hits, k) }
func (r *cacheRecorder) OnCacheMiss(_ context.Context, k string) { r.misses = append(r.misses, k) }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnParseStart(ctx, "deps.box")
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	Solver().OnIteration(ctx, 1, 48, 20, true, time.Millisecond)
	Cache().OnCacheSet(ctx, "layout", 512)
	HTTP().OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)

	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Errorf("Solver() = %T, want NoopSolverHooks", Solver())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestInstalledHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	sr := &solverRecorder{}
	cr := &cacheRecorder{}
	SetSolverHooks(sr)
	SetCacheHooks(cr)

	for _, b := range []int{48, 19, 13} {
		Solver().OnIteration(ctx, 0, b, 0, false, 0)
	}
	Solver().OnSolveComplete(ctx, 3, 14, true, time.Second, nil)
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheHit(ctx, "svg")

	if len(sr.bounds) != 3 || sr.bounds[2] != 13 || !sr.done {
		t.Errorf("solver events = %v done=%v", sr.bounds, sr.done)
	}
	if len(cr.misses) != 1 || cr.misses[0] != "layout" || len(cr.hits) != 1 || cr.hits[0] != "svg" {
		t.Errorf("cache events: hits %v misses %v", cr.hits, cr.misses)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	sr := &solverRecorder{}
	SetSolverHooks(sr)
	SetSolverHooks(nil)
	SetPipelineHooks(nil)

	if Solver() != sr {
		t.Error("nil should not replace installed solver hooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("nil should not replace default pipeline hooks")
	}
}

func TestResetRestoresNoop(t *testing.T) {
	SetHTTPHooks(&struct{ NoopHTTPHooks }{})
	Reset()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() after Reset = %T", HTTP())
	}
}
