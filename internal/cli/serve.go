package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/server"
)

// serverKeyPrefix keeps server entries apart from CLI entries when both
// share a Redis or MongoDB cache.
const serverKeyPrefix = "server:"

func (c *CLI) serveCommand() *cobra.Command {
	var addr, cacheURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. POST a BOX document to /v1/render or /v1/layout.

The server caches in process memory unless --cache (or cache.url) names
a shared backend such as redis://host:6379/0 or mongodb://host/boxtower.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if !cmd.Flags().Changed("cache") {
				cacheURL = cfg.Cache.URL
			}
			if cacheURL == "" {
				cacheURL = fmt.Sprintf("memory://?size=%d", cfg.Cache.Size)
			}

			ch, err := cache.Open(ctx, cacheURL)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, serverKeyPrefix), c.Logger)
			runner.LayoutTTL = cfg.Cache.TTL.Duration
			defer runner.Close()

			defaults, err := c.baseOptions("request", nil)
			if err != nil {
				return err
			}
			srv := server.New(runner, c.Logger,
				server.WithDefaults(defaults),
				server.WithRequestTimeout(cfg.Server.RequestTimeout.Duration),
			)
			printInfo("Serving on %s", StyleValue.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheURL, "cache", "", "cache URL: memory, redis://, mongodb://, file path or none")
	return cmd
}
