package layout

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMaxIterations caps the number of satisfiability checks.
	DefaultMaxIterations = 1000

	// DefaultTimeout is the wall-clock budget for a whole layout.
	DefaultTimeout = 60 * time.Second

	// BudgetPerNode sets the generous initial perimeter bound: the first
	// check asks for a total perimeter of at most BudgetPerNode × node count.
	BudgetPerNode = 12
)

// HeightPolicy maps the number of label lines to a minimum box height.
type HeightPolicy string

const (
	// HalfLines requires ceil(lines/2) grid units, two label lines per unit.
	HalfLines HeightPolicy = "half"
	// FullLines requires one grid unit per label line.
	FullLines HeightPolicy = "full"
)

// MinHeight returns the minimum height for a label with the given number of
// lines. The result is never below 1.
func (p HeightPolicy) MinHeight(lines int) int {
	h := lines
	if p != FullLines {
		h = (lines + 1) / 2
	}
	return max(h, 1)
}

// ParseHeightPolicy validates a policy name. The empty string selects
// [HalfLines].
func ParseHeightPolicy(s string) (HeightPolicy, error) {
	switch HeightPolicy(s) {
	case "":
		return HalfLines, nil
	case HalfLines, FullLines:
		return HeightPolicy(s), nil
	}
	return "", fmt.Errorf("invalid height policy: %q (must be one of: half, full)", s)
}

// Tightening selects how the perimeter bound shrinks after each satisfiable
// check.
type Tightening string

const (
	// TightenByOne lowers the bound by exactly one unit per iteration.
	TightenByOne Tightening = "step"
	// TightenToModel lowers the bound to one below the perimeter of the
	// layout just found. It reaches the same optimum in fewer checks.
	TightenToModel Tightening = "model"
)

// ParseTightening validates a tightening name. The empty string selects
// [TightenByOne].
func ParseTightening(s string) (Tightening, error) {
	switch Tightening(s) {
	case "":
		return TightenByOne, nil
	case TightenByOne, TightenToModel:
		return Tightening(s), nil
	}
	return "", fmt.Errorf("invalid tightening: %q (must be one of: step, model)", s)
}

// Iteration describes one satisfiability check of the tightening loop.
type Iteration struct {
	N         int           // 1-based
	Bound     int           // perimeter bound in force for this check
	Sat       bool          // whether a layout within Bound was found
	Perimeter int           // perimeter of the found layout, 0 when !Sat
	Elapsed   time.Duration // since Solve started
}

// Options configures [Solve].
type Options struct {
	// MaxIterations caps satisfiability checks. Zero means DefaultMaxIterations.
	MaxIterations int `json:"max_iterations,omitempty"`

	// Timeout bounds the whole layout. Zero means DefaultTimeout.
	Timeout time.Duration `json:"timeout,omitempty"`

	// SolveTimeout bounds a single check. Zero means only Timeout applies.
	SolveTimeout time.Duration `json:"solve_timeout,omitempty"`

	HeightPolicy HeightPolicy `json:"height_policy,omitempty"`
	Tightening   Tightening   `json:"tightening,omitempty"`

	// GridWidth is the largest X coordinate. Zero means twice the node count.
	GridWidth int `json:"grid_width,omitempty"`

	// GridHeight is how far towers may extend above the ground. Zero means
	// the sum of the minimum heights of all non-ground nodes.
	GridHeight int `json:"grid_height,omitempty"`

	Logger      *log.Logger     `json:"-"`
	OnIteration func(Iteration) `json:"-"`
}

// SetDefaults fills zero fields. Grid dimensions depend on the graph and are
// resolved by [Solve].
func (o *Options) SetDefaults() {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.HeightPolicy == "" {
		o.HeightPolicy = HalfLines
	}
	if o.Tightening == "" {
		o.Tightening = TightenByOne
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate checks enumerated and numeric fields.
func (o *Options) Validate() error {
	if _, err := ParseHeightPolicy(string(o.HeightPolicy)); err != nil {
		return err
	}
	if _, err := ParseTightening(string(o.Tightening)); err != nil {
		return err
	}
	if o.GridWidth < 0 || o.GridHeight < 0 {
		return fmt.Errorf("grid dimensions must not be negative: %dx%d", o.GridWidth, o.GridHeight)
	}
	if o.SolveTimeout < 0 {
		return fmt.Errorf("solve timeout must not be negative: %s", o.SolveTimeout)
	}
	return nil
}
