package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/boxfile"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/deps"
	"github.com/matzehuels/boxtower/pkg/integrations"
	"github.com/matzehuels/boxtower/pkg/integrations/brew"
	"github.com/matzehuels/boxtower/pkg/integrations/npm"
)

type scrapeFlags struct {
	output   string
	registry string
	maxDepth int
	maxNodes int
	workers  int
	refresh  bool
	noCache  bool
}

func (c *CLI) scrapeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Write a BOX file from a package registry",
		Long: `Crawl the runtime dependencies of a package and write them as a BOX
file, ready for render. Registry answers are cached for a day.`,
	}
	cmd.AddCommand(c.scrapeNPMCommand())
	cmd.AddCommand(c.scrapeBrewCommand())
	return cmd
}

func (c *CLI) scrapeNPMCommand() *cobra.Command {
	var f scrapeFlags
	cmd := &cobra.Command{
		Use:     "npm PACKAGE",
		Short:   "Scrape an npm package",
		Example: "  boxtower scrape npm express -o express.box",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScrape(cmd, args[0], &f, func(ch cache.Cache) deps.Fetcher {
				return deps.NPM(npm.NewClient(ch, integrations.DefaultTTL).WithBaseURL(f.registry))
			}, "npm")
		},
	}
	f.register(cmd, npm.DefaultBaseURL)
	return cmd
}

func (c *CLI) scrapeBrewCommand() *cobra.Command {
	var f scrapeFlags
	cmd := &cobra.Command{
		Use:     "brew FORMULA",
		Short:   "Scrape a Homebrew formula",
		Example: "  boxtower scrape brew ffmpeg | boxtower render -",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScrape(cmd, args[0], &f, func(ch cache.Cache) deps.Fetcher {
				return deps.Brew(brew.NewClient(ch, integrations.DefaultTTL).WithBaseURL(f.registry))
			}, "brew")
		},
	}
	f.register(cmd, brew.DefaultBaseURL)
	return cmd
}

func (f *scrapeFlags) register(cmd *cobra.Command, registry string) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&f.registry, "registry", registry, "registry base URL")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", deps.DefaultMaxDepth, "dependency hops to follow")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", deps.DefaultMaxNodes, "packages to fetch at most")
	cmd.Flags().IntVar(&f.workers, "workers", deps.DefaultWorkers, "concurrent requests")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached registry answers")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the cache")
}

func (c *CLI) runScrape(cmd *cobra.Command, pkg string, f *scrapeFlags, fetcher func(cache.Cache) deps.Fetcher, registry string) error {
	ctx := cmd.Context()
	ch, err := c.openCache(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	g, err := deps.NewRegistry(registry, fetcher(ch)).Resolve(ctx, pkg, deps.Options{
		MaxDepth: f.maxDepth,
		MaxNodes: f.maxNodes,
		Workers:  f.workers,
		Refresh:  f.refresh,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	c.Logger.Info("scraped", "registry", registry, "package", pkg, "packages", g.NodeCount()-1)

	var buf bytes.Buffer
	if err := boxfile.Write(&buf, g); err != nil {
		return err
	}
	if f.output == "" {
		_, err := c.stdout.Write(buf.Bytes())
		return err
	}
	return writeFile(f.output, buf.Bytes())
}
