package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/dag"
	dagtransform "github.com/matzehuels/boxtower/pkg/dag/transform"
	"github.com/matzehuels/boxtower/pkg/pipeline"
)

func (c *CLI) depsCommand() *cobra.Command {
	var showGround bool

	cmd := &cobra.Command{
		Use:   "deps FILE [NODE...]",
		Short: "List declared, direct and transitive dependencies",
		Long: `List the dependencies of every node (or only the given nodes). Direct
dependencies are the boxes a node rests on; transitive ones are reachable
through another declared dependency and are not touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			g, err := pipeline.Parse(cmd.Context(), pipeline.Options{Source: sourceName(args[0]), Input: data})
			if err != nil {
				return err
			}

			ids := args[1:]
			if len(ids) == 0 {
				ids = g.IDs()
			}
			rows, err := dependencyRows(g, ids, showGround)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.stdout, renderTable([]string{"node", "level", "declared", "direct", "transitive"}, rows))
			return err
		},
	}

	cmd.Flags().BoolVar(&showGround, "ground", false, "include the ground node and dependencies on it")
	return cmd
}

func dependencyRows(g *dag.DAG, ids []string, showGround bool) ([][]string, error) {
	levels := dagtransform.Levels(g)
	all := g.IDs()

	var rows [][]string
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", dag.ErrUnknownNode, id)
		}
		if n.IsGround() && !showGround {
			continue
		}

		direct, err := g.DirectDependencies(id)
		if err != nil {
			return nil, err
		}
		var transitive []string
		for _, other := range all {
			rel, err := g.Classify(id, other)
			if err != nil {
				return nil, err
			}
			if rel == dag.Transitive {
				transitive = append(transitive, other)
			}
		}

		rows = append(rows, []string{
			id,
			strconv.Itoa(levels[id]),
			joinIDs(n.Deps, showGround),
			joinIDs(direct, showGround),
			joinIDs(transitive, showGround),
		})
	}
	return rows, nil
}

func joinIDs(ids []string, showGround bool) string {
	var out []string
	for _, id := range ids {
		if id == dag.Ground && !showGround {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}
