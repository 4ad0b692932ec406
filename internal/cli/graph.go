package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/pipeline"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		output     string
		formats    string
		transitive bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Draw the direct-dependency graph as a node-link diagram",
		Long: `Draw the direct-dependency graph with Graphviz. Nodes on the same level
share a rank, so the diagram reads like the tower turned into arrows.
--transitive adds the hidden transitive dependencies as dashed edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			opts, err := c.baseOptions(args[0], data)
			if err != nil {
				return err
			}
			opts.VizType = pipeline.VizTypeNodelink
			opts.Formats = splitList(formats)
			opts.Transitive = transitive

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}
			return c.writeArtifacts(args[0], output, formatsOf(opts), res.Artifacts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (one format) or base path (several)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatDOT, "output format(s): dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&transitive, "transitive", false, "also draw transitive dependencies")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
