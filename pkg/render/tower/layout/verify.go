package layout

import (
	"errors"
	"fmt"

	"github.com/matzehuels/boxtower/pkg/dag"
)

// ErrInvalidLayout is wrapped by every error [Verify] returns.
var ErrInvalidLayout = errors.New("invalid layout")

// Verify re-checks a layout against g independently of the solver:
//
//   - one rectangle per node, in insertion order
//   - x0 < x1, y0 < y1 and x0 >= 0
//   - heights respect the layout's height policy
//   - the ground's top-left corner is at the origin
//   - no two rectangles overlap
//   - a rectangle rests on another exactly when that node is a direct
//     dependency
//
// It reports the first violation found.
func Verify(g *dag.DAG, l Layout) error {
	nodes := g.Nodes()
	if len(l.Rects) != len(nodes) {
		return fmt.Errorf("%w: %d rectangles for %d nodes", ErrInvalidLayout, len(l.Rects), len(nodes))
	}
	policy := l.HeightPolicy
	if policy == "" {
		policy = HalfLines
	}
	for i, n := range nodes {
		r := l.Rects[i]
		switch {
		case r.NodeID != n.ID:
			return fmt.Errorf("%w: rectangle %d is %q, want %q", ErrInvalidLayout, i, r.NodeID, n.ID)
		case r.X0 >= r.X1 || r.Y0 >= r.Y1:
			return fmt.Errorf("%w: %s is degenerate: %+v", ErrInvalidLayout, n.ID, r)
		case r.X0 < 0:
			return fmt.Errorf("%w: %s starts left of the origin", ErrInvalidLayout, n.ID)
		case r.Height() < policy.MinHeight(len(n.Lines())):
			return fmt.Errorf("%w: %s is %d high, its label needs %d", ErrInvalidLayout, n.ID, r.Height(), policy.MinHeight(len(n.Lines())))
		}
	}
	if ground := l.Rects[0]; ground.X0 != 0 || ground.Y0 != 0 {
		return fmt.Errorf("%w: ground at (%d, %d), want (0, 0)", ErrInvalidLayout, ground.X0, ground.Y0)
	}

	direct := g.DirectMatrix()
	for i, a := range l.Rects {
		for j, b := range l.Rects {
			if i == j {
				continue
			}
			if i < j && a.Overlaps(b) {
				return fmt.Errorf("%w: %s overlaps %s", ErrInvalidLayout, a.NodeID, b.NodeID)
			}
			if rests := a.RestsOn(b); rests != direct[i][j] {
				if rests {
					return fmt.Errorf("%w: %s rests on %s, which is not a direct dependency", ErrInvalidLayout, a.NodeID, b.NodeID)
				}
				return fmt.Errorf("%w: %s does not rest on its direct dependency %s", ErrInvalidLayout, a.NodeID, b.NodeID)
			}
		}
	}
	return nil
}
