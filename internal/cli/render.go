package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	coded "github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/render/tower/layout"
)

// allFormats lists every extension render may write, for stripping it off
// an output path.
var allFormats = []string{
	pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF,
	pipeline.FormatJSON, pipeline.FormatDOT,
}

type renderFlags struct {
	layoutFlags
	output       string
	formats      string
	viz          string
	style        string
	css          string
	seed         uint64
	jitter       int
	inset        int
	scaleX       int
	scaleY       int
	pngScale     float64
	transitive   bool
	showProgress bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render FILE [CSS]",
		Short: "Draw a BOX file as a box tower",
		Long: `Draw a BOX file as a box tower.

With a single format and no --output the document is written to stdout.
Several formats are written next to the input (or the --output base path),
one file per format. FILE may be "-" for stdin. The optional CSS file is
appended to the built-in style sheet.

If the graph has no tower drawing the command prints a message instead of
a document and exits with status 3.`,
		Example: `  boxtower render deps.box > deps.svg
  boxtower render deps.box theme.css -f svg,png -o out/deps
  boxtower render deps.box --viz nodelink -f dot`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				f.css = args[1]
			}
			return c.runRender(cmd, args[0], &f)
		},
	}

	f.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file (one format) or base path (several)")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json; dot for nodelink (comma-separated)")
	fs.StringVar(&f.viz, "viz", pipeline.VizTypeTower, "visualization: tower or nodelink")
	fs.StringVar(&f.style, "style", "", "tower style: classic (default) or plain")
	fs.StringVar(&f.css, "css", "", "style sheet appended to the SVG")
	fs.Uint64Var(&f.seed, "seed", 0, "jitter seed (default 42)")
	fs.IntVar(&f.jitter, "jitter", 0, "largest horizontal jitter per box edge (default 10)")
	fs.IntVar(&f.inset, "inset", 0, "gap between a box edge and its grid cell (default 10)")
	fs.IntVar(&f.scaleX, "scale-x", 0, "drawing units per grid column (default 160)")
	fs.IntVar(&f.scaleY, "scale-y", 0, "drawing units per grid row (default 50)")
	fs.Float64Var(&f.pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG zoom factor")
	fs.BoolVar(&f.transitive, "transitive", false, "also draw transitive dependencies (nodelink)")
	fs.BoolVar(&f.showProgress, "progress", false, "show the tightening loop live")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, f *renderFlags) error {
	ctx := cmd.Context()

	data, err := readInput(input)
	if err != nil {
		return err
	}
	opts, err := c.baseOptions(input, data)
	if err != nil {
		return err
	}
	f.apply(cmd, &opts)
	if err := f.applyRender(cmd, &opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.execute(ctx, runner, opts, f.showProgress)
	if err != nil {
		if coded.Classify(err).Code == coded.ErrCodeLayoutInfeasible {
			fmt.Fprintln(c.stdout, coded.UserMessage(coded.Classify(err)))
			return &exitError{code: ExitInfeasible, err: err}
		}
		return err
	}

	if opts.VizType != pipeline.VizTypeNodelink {
		c.reportLayout(res)
	}
	return c.writeArtifacts(input, f.output, formatsOf(opts), res.Artifacts)
}

func (f *renderFlags) applyRender(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	opts.VizType = f.viz
	opts.PNGScale = f.pngScale
	opts.Transitive = f.transitive
	if fs.Changed("format") {
		opts.Formats = splitList(f.formats)
	}
	if fs.Changed("style") {
		opts.Style = f.style
	}
	if fs.Changed("seed") {
		opts.Transform.Seed = f.seed
	}
	if fs.Changed("jitter") {
		opts.Transform.Jitter = f.jitter
	}
	if fs.Changed("inset") {
		opts.Transform.Inset = f.inset
	}
	if fs.Changed("scale-x") {
		opts.Transform.ScaleX = f.scaleX
	}
	if fs.Changed("scale-y") {
		opts.Transform.ScaleY = f.scaleY
	}
	if f.css != "" {
		css, err := os.ReadFile(f.css)
		if err != nil {
			return fmt.Errorf("read style sheet: %w", err)
		}
		opts.CSS = string(css)
	}
	return nil
}

func formatsOf(opts pipeline.Options) []string {
	if len(opts.Formats) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return opts.Formats
}

// execute runs the pipeline behind a spinner, or behind the live solve view
// when showProgress is set.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, showProgress bool) (*pipeline.Result, error) {
	if showProgress {
		return c.executeWithView(ctx, runner, opts)
	}
	if c.verbose {
		return runner.Execute(ctx, opts)
	}

	spinner := newSpinnerWithContext(ctx, "Solving layout")
	opts.Layout.OnIteration = func(it layout.Iteration) {
		spinner.Update(fmt.Sprintf("Solving layout (iteration %d, bound %d)", it.N, it.Bound))
	}
	spinner.Start()
	defer spinner.Stop()
	return runner.Execute(ctx, opts)
}

func (c *CLI) executeWithView(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	p := tea.NewProgram(newSolveModel(opts.Source),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(uiOut),
	)
	opts.Layout.OnIteration = func(it layout.Iteration) { p.Send(iterationMsg(it)) }

	type outcome struct {
		res *pipeline.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := runner.Execute(ctx, opts)
		done <- outcome{res, err}
		p.Send(solveDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		c.Logger.Warn("progress view failed", "error", err)
	}
	out := <-done
	return out.res, out.err
}

func (c *CLI) reportLayout(res *pipeline.Result) {
	printSolveStats(res.Stats.NodeCount, res.Layout.Stats, res.CacheInfo.LayoutHit)
	if !res.Layout.Stats.Optimal {
		printWarning("layout is not proven optimal (%s)", solveOutcome(res.Layout.Stats))
	}
}

// writeArtifacts sends a single artifact to stdout unless output is set,
// and writes several to base.format files.
func (c *CLI) writeArtifacts(input, output string, formats []string, artifacts map[string][]byte) error {
	if len(formats) == 1 && output == "" {
		_, err := c.stdout.Write(artifacts[formats[0]])
		return err
	}
	if len(formats) == 1 {
		return writeFile(output, artifacts[formats[0]])
	}

	base := basePath(output, input)
	for _, format := range formats {
		if err := writeFile(base+"."+format, artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// basePath derives the path that format extensions are appended to. A
// known extension on output is stripped; without output the input name is
// used, or "tower" for stdin.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "tower"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(allFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
