package cli

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

// layoutFlags are the solver flags shared by render and layout.
type layoutFlags struct {
	heightPolicy  string
	tightening    string
	timeout       time.Duration
	solveTimeout  time.Duration
	maxIterations int
	gridWidth     int
	gridHeight    int
	verify        bool
	noCache       bool
	refresh       bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.heightPolicy, "height-policy", "", "minimum box height: half (one unit per two label lines) or full")
	fs.StringVar(&f.tightening, "tightening", "", "perimeter bound step: step (one unit) or model (below the last layout)")
	fs.DurationVar(&f.timeout, "timeout", 0, "time limit for the whole solve (default 60s)")
	fs.DurationVar(&f.solveTimeout, "solve-timeout", 0, "time limit for a single solver call")
	fs.IntVar(&f.maxIterations, "max-iterations", 0, "maximum tightening iterations (default 1000)")
	fs.IntVar(&f.gridWidth, "grid-width", 0, "largest x coordinate (default twice the node count)")
	fs.IntVar(&f.gridHeight, "grid-height", 0, "tallest tower (default the sum of minimum heights)")
	fs.BoolVar(&f.verify, "verify", false, "re-check every layout against the graph")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached layouts but store new ones")
}

// apply overrides the configured layout options with the flags the user set.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("height-policy") {
		opts.Layout.HeightPolicy = layout.HeightPolicy(f.heightPolicy)
	}
	if fs.Changed("tightening") {
		opts.Layout.Tightening = layout.Tightening(f.tightening)
	}
	if fs.Changed("timeout") {
		opts.Layout.Timeout = f.timeout
	}
	if fs.Changed("solve-timeout") {
		opts.Layout.SolveTimeout = f.solveTimeout
	}
	if fs.Changed("max-iterations") {
		opts.Layout.MaxIterations = f.maxIterations
	}
	if fs.Changed("grid-width") {
		opts.Layout.GridWidth = f.gridWidth
	}
	if fs.Changed("grid-height") {
		opts.Layout.GridHeight = f.gridHeight
	}
	opts.Verify = f.verify
	opts.Refresh = f.refresh
}

// baseOptions builds pipeline options from the loaded config.
func (c *CLI) baseOptions(source string, input []byte) (pipeline.Options, error) {
	opts := pipeline.Options{
		Source:    sourceName(source),
		Input:     input,
		Layout:    c.Config.LayoutOptions(),
		Transform: c.Config.TransformOptions(),
		Style:     c.Config.Render.Style,
		Logger:    c.Logger,
	}
	if path := c.Config.Render.CSS; path != "" {
		css, err := os.ReadFile(path)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.CSS = string(css)
	}
	return opts, nil
}

func sourceName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
