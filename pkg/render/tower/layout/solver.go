package layout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/observability"
)

var (
	// ErrInfeasible is returned when no layout exists within the initial
	// perimeter budget and grid: the dependency structure cannot be drawn as
	// a tower of boxes resting exactly on their direct dependencies.
	ErrInfeasible = errors.New("layout infeasible")

	// ErrTimeout is returned when the time budget ran out before the first
	// layout was found.
	ErrTimeout = errors.New("layout timed out")

	// ErrEmptyGraph is returned for a nil graph.
	ErrEmptyGraph = errors.New("graph is empty")
)

// errDeadline marks a check stopped by a time budget.
var errDeadline = errors.New("deadline reached")

const pollInterval = 2 * time.Millisecond

// Result codes of a satisfiability check.
const (
	unsat   = -1
	unknown = 0
	sat     = 1
)

// Stats describes how a layout was obtained.
type Stats struct {
	Iterations int `json:"iterations"`
	Perimeter  int `json:"perimeter"`
	// Bound is the tightest perimeter bound checked.
	Bound int `json:"bound"`
	// Budget is the initial bound.
	Budget int `json:"budget"`
	// Optimal is set when the loop ended on an unsatisfiable check, so no
	// layout with a smaller perimeter exists.
	Optimal        bool          `json:"optimal"`
	TimedOut       bool          `json:"timed_out,omitempty"`
	Interrupted    bool          `json:"interrupted,omitempty"`
	IterationLimit bool          `json:"iteration_limit,omitempty"`
	Vars           int           `json:"vars"`
	Clauses        int           `json:"clauses"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Layout is a solved tower: one rectangle per node in insertion order, the
// ground first.
type Layout struct {
	Rects        []Rect       `json:"rects"`
	HeightPolicy HeightPolicy `json:"height_policy"`
	Stats        Stats        `json:"stats"`
}

// Rect returns the rectangle of the given node.
func (l Layout) Rect(id string) (Rect, bool) {
	for _, r := range l.Rects {
		if r.NodeID == id {
			return r, true
		}
	}
	return Rect{}, false
}

// Perimeter returns the total perimeter of all rectangles.
func (l Layout) Perimeter() int { return perimeter(l.Rects) }

// Bounds returns the smallest rectangle enclosing every box.
func (l Layout) Bounds() Rect {
	if len(l.Rects) == 0 {
		return Rect{}
	}
	b := l.Rects[0]
	for _, r := range l.Rects[1:] {
		b.X0, b.Y0 = min(b.X0, r.X0), min(b.Y0, r.Y0)
		b.X1, b.Y1 = max(b.X1, r.X1), max(b.Y1, r.Y1)
	}
	b.NodeID = ""
	return b
}

// Solve computes the tower layout of g with the smallest total perimeter it
// can prove or reach within the budgets in opts.
//
// The constraint store is built once. The first check uses the generous
// budget of [BudgetPerNode] per node. Every satisfiable check records its
// layout and adds a strictly tighter perimeter bound; constraints are never
// removed. The loop ends at the first unsatisfiable check, and the last
// layout found is returned with Stats.Optimal set.
//
// If the first check is unsatisfiable Solve returns [ErrInfeasible]. If the
// time budget runs out before any layout was found it returns [ErrTimeout];
// a cancelled ctx yields ctx.Err(). Once a layout exists, running out of
// time, iterations or context returns that layout with the matching Stats
// flag instead of an error.
//
// Solve finalizes g.
func Solve(ctx context.Context, g *dag.DAG, opts Options) (Layout, error) {
	if g == nil {
		return Layout{}, ErrEmptyGraph
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}

	start := time.Now()
	deadline := start.Add(opts.Timeout)
	logger := opts.Logger
	hooks := observability.Solver()

	m := newModel(g, opts)
	stats := Stats{
		Budget:  m.budget,
		Vars:    int(m.st.last),
		Clauses: m.st.clauses,
	}
	hooks.OnSolveStart(ctx, g.NodeCount(), stats.Vars, stats.Clauses)
	logger.Debug("constraint store built", "nodes", g.NodeCount(), "vars", stats.Vars, "clauses", stats.Clauses)

	var best []Rect
	bound := m.budget
	err := func() error {
		for stats.Iterations < opts.MaxIterations {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !time.Now().Before(deadline) {
				return errDeadline
			}
			if stats.Iterations > 0 {
				m.tighten(bound)
			}
			stats.Iterations++
			stats.Bound = bound

			callDeadline := deadline
			if opts.SolveTimeout > 0 {
				callDeadline = minTime(deadline, time.Now().Add(opts.SolveTimeout))
			}
			res, err := check(ctx, m.st, callDeadline)

			it := Iteration{N: stats.Iterations, Bound: bound, Sat: res == sat, Elapsed: time.Since(start)}
			if res == sat {
				best = m.rects()
				it.Perimeter = perimeter(best)
			}
			hooks.OnIteration(ctx, it.N, it.Bound, it.Perimeter, it.Sat, it.Elapsed)
			logger.Debug("tighten", "iteration", it.N, "bound", it.Bound, "sat", it.Sat, "perimeter", it.Perimeter, "elapsed", it.Elapsed)
			if opts.OnIteration != nil {
				opts.OnIteration(it)
			}

			switch {
			case err != nil:
				return err
			case res == unsat:
				stats.Optimal = best != nil
				return nil
			case res == unknown:
				return errDeadline
			}

			if opts.Tightening == TightenToModel {
				bound = it.Perimeter - 1
			} else {
				bound--
			}
		}
		stats.IterationLimit = true
		return nil
	}()
	stats.Elapsed = time.Since(start)

	switch {
	case best == nil && err == nil:
		err = fmt.Errorf("%w: no layout within perimeter %d on a %d-node graph", ErrInfeasible, m.budget, g.NodeCount())
	case best == nil && errors.Is(err, errDeadline):
		err = fmt.Errorf("%w after %s", ErrTimeout, stats.Elapsed.Round(time.Millisecond))
	case best == nil:
	case errors.Is(err, errDeadline):
		stats.TimedOut, err = true, nil
	case err != nil:
		stats.Interrupted, err = true, nil
	}
	if best != nil {
		stats.Perimeter = perimeter(best)
	}
	hooks.OnSolveComplete(ctx, stats.Iterations, stats.Perimeter, stats.Optimal, stats.Elapsed, err)
	if err != nil {
		return Layout{}, err
	}

	logger.Info("layout solved",
		"nodes", g.NodeCount(),
		"perimeter", stats.Perimeter,
		"iterations", stats.Iterations,
		"optimal", stats.Optimal,
		"elapsed", stats.Elapsed.Round(time.Millisecond))
	return Layout{Rects: best, HeightPolicy: opts.HeightPolicy, Stats: stats}, nil
}

// check runs one satisfiability check in the background and polls it until
// it finishes, ctx is done or the deadline passes.
func check(ctx context.Context, st *store, deadline time.Time) (int, error) {
	run := st.sat.GoSolve()
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if res, done := run.Test(); done {
			return res, nil
		}
		select {
		case <-ctx.Done():
			if res := run.Stop(); res != unknown {
				return res, nil
			}
			return unknown, ctx.Err()
		case <-timer.C:
			if res := run.Stop(); res != unknown {
				return res, nil
			}
			return unknown, errDeadline
		case <-ticker.C:
		}
	}
}

func perimeter(rects []Rect) int {
	total := 0
	for _, r := range rects {
		total += r.Perimeter()
	}
	return total
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
