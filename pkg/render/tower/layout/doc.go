// Package layout computes box tower geometry with a SAT solver.
//
// # Model
//
// Every node becomes an axis-aligned rectangle with integer corners
// (x0, y0) and (x1, y1). Y grows downward: the ground node has its top-left
// corner pinned at the origin and everything else is stacked above it at
// negative Y. The constraints are:
//
//   - x0 < x1, y0 < y1 and x0 >= 0
//   - y1 - y0 is at least the minimum height of the node's label
//     (see [HeightPolicy])
//   - no two rectangles overlap
//   - n rests on c (n.y1 == c.y0 and their x ranges overlap) if and only if
//     c is a direct dependency of n
//
// The objective is the total perimeter, the sum of width plus height over
// all rectangles.
//
// # Encoding
//
// Coordinates are order-encoded: an integer v in [lo, hi] is a chain of
// literals "v >= k". Difference constraints a + d <= b become one clause per
// value of a. Disjunctions such as "left of, right of, above or below" use
// one selector literal per alternative. Widths, heights and their running
// sums are encoded the same way, with the sum capped at the initial
// perimeter budget.
//
// # Tightening Loop
//
// [Solve] builds the store once and then asks the incremental solver
// (github.com/go-air/gini) for a layout within a perimeter bound. Each
// satisfiable answer adds a strictly tighter bound. Constraints accumulate
// and are never retracted, so restarting requires a fresh store. The first
// unsatisfiable answer proves the previous layout optimal.
//
// Each check runs in the background and is polled, so a context
// cancellation or an exhausted time budget stops it promptly. Once a layout
// exists, stopping early still returns it with [Stats] describing why.
//
// # Verification
//
// [Verify] re-checks a [Layout] against its graph without the solver. Tests
// and the debug mode of the pipeline use it.
package layout
