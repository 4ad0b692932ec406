package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		lf     layoutFlags
		output string
		asTbl  bool
	)

	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Solve the tower layout and print it as JSON",
		Long: `Solve the tower layout of a BOX file and print the rectangles in grid
units together with solver statistics. Use --table for a readable summary.`,
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
			lf.apply(cmd, &opts)

			runner, err := c.newRunner(ctx, lf.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			g, err := runner.Parse(ctx, opts)
			if err != nil {
				return err
			}
			l, hit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Solved layout of %s", opts.Source))
			printSolveStats(g.NodeCount(), l.Stats, hit)

			if asTbl {
				rows := make([][]string, len(l.Rects))
				for i, r := range l.Rects {
					rows[i] = []string{
						r.NodeID,
						strconv.Itoa(r.X0), strconv.Itoa(r.Y0),
						strconv.Itoa(r.X1), strconv.Itoa(r.Y1),
						strconv.Itoa(r.Perimeter()),
					}
				}
				_, err := fmt.Fprintln(c.stdout, renderTable([]string{"node", "x0", "y0", "x1", "y1", "w+h"}, rows))
				return err
			}

			out, err := json.MarshalIndent(l, "", "  ")
			if err != nil {
				return err
			}
			out = append(out, '\n')
			if output != "" {
				return writeFile(output, out)
			}
			_, err = c.stdout.Write(out)
			return err
		},
	}

	lf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&asTbl, "table", false, "print a table instead of JSON")
	return cmd
}
