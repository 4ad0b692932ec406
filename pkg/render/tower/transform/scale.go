package transform

import (
	"errors"
	"fmt"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/render/tower"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

// Defaults used by [DefaultOptions].
const (
	// DefaultScaleX is the width of one grid column in drawing units.
	DefaultScaleX = 160
	// DefaultScaleY is the height of one grid row in drawing units.
	DefaultScaleY = 50
	// DefaultInset is how far each box is pulled in from its left and
	// right grid lines.
	DefaultInset = 10
	// DefaultJitter is the exclusive upper bound of the per-edge offset.
	DefaultJitter = 10
	// DefaultSeed seeds [Jitter] when the caller gives none.
	DefaultSeed = 42
)

// ErrInvalidOptions is returned by [Options.Validate] and [Scale] when the
// options could move boxes off their solved relations.
var ErrInvalidOptions = errors.New("invalid transform options")

// Options controls how grid rectangles map to drawing units.
//
// A grid column is ScaleX units wide and a grid row ScaleY units high. Each
// box is shrunk by Inset on its left and right side and then both sides are
// shifted right by an independent offset in [0, Jitter).
type Options struct {
	ScaleX int
	ScaleY int
	Inset  int
	Jitter int
	Seed   uint64
}

// DefaultOptions returns the standard drawing parameters.
func DefaultOptions() Options {
	return Options{
		ScaleX: DefaultScaleX,
		ScaleY: DefaultScaleY,
		Inset:  DefaultInset,
		Jitter: DefaultJitter,
		Seed:   DefaultSeed,
	}
}

// Validate checks that the options cannot break the solved geometry. With
// Jitter <= Inset a box edge never leaves its own grid column, so
// neighbors stay apart. With ScaleX > 2*Inset+Jitter every box keeps a
// positive width, so boxes resting on each other still overlap horizontally.
func (o Options) Validate() error {
	switch {
	case o.ScaleX <= 0 || o.ScaleY <= 0:
		return fmt.Errorf("%w: scale must be positive (got %dx%d)", ErrInvalidOptions, o.ScaleX, o.ScaleY)
	case o.Inset < 0 || o.Jitter < 0:
		return fmt.Errorf("%w: inset and jitter must not be negative", ErrInvalidOptions)
	case o.Jitter > o.Inset:
		return fmt.Errorf("%w: jitter %d exceeds inset %d", ErrInvalidOptions, o.Jitter, o.Inset)
	case o.ScaleX <= 2*o.Inset+o.Jitter:
		return fmt.Errorf("%w: horizontal scale %d leaves no room for inset %d and jitter %d", ErrInvalidOptions, o.ScaleX, o.Inset, o.Jitter)
	}
	return nil
}

// Scale converts a solved layout into drawing coordinates. Styles and
// labels come from g; a node without a label is labelled with its ID,
// except the ground, which stays blank. Blocks keep the order of l.Rects.
func Scale(g *dag.DAG, l layout.Layout, opts Options) (tower.Tower, error) {
	if err := opts.Validate(); err != nil {
		return tower.Tower{}, err
	}

	jitter := Jitter(opts.Seed, len(l.Rects), opts.Jitter)
	sx, sy, in := float64(opts.ScaleX), float64(opts.ScaleY), float64(opts.Inset)

	t := tower.Tower{Blocks: make([]tower.Block, 0, len(l.Rects)), Seed: opts.Seed}
	for i, r := range l.Rects {
		b := tower.Block{
			NodeID: r.NodeID,
			Left:   sx*float64(r.X0) + in + float64(jitter[2*i]),
			Right:  sx*float64(r.X1) - in + float64(jitter[2*i+1]),
			Top:    sy * float64(r.Y0),
			Bottom: sy * float64(r.Y1),
			Style:  dag.DefaultStyle,
			Label:  r.NodeID,
		}
		if r.NodeID == dag.Ground {
			b.Style = dag.GroundStyle
			b.Label = ""
		}
		if g != nil {
			if n, ok := g.Node(r.NodeID); ok {
				if n.Style != "" {
					b.Style = n.Style
				}
				if n.Label != "" || n.IsGround() {
					b.Label = n.Label
				}
			}
		}
		t.Blocks = append(t.Blocks, b)
	}
	return t, nil
}
