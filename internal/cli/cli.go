// Package cli implements the boxtower command-line interface.
//
// # Commands
//
//   - render: draw a BOX file as a tower (SVG to stdout by default)
//   - layout: print the solved layout as JSON
//   - deps: list declared, direct and transitive dependencies
//   - graph: draw the direct-dependency graph with Graphviz
//   - scrape: write a BOX file from the npm registry or Homebrew
//   - serve: run the HTTP API
//   - cache: inspect or clear the layout cache
//
// Settings come from the config file (--config), then BOXTOWER_*
// environment variables (a .env file is read first), then flags.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/buildinfo"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/config"
	coded "github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/pipeline"
)

const appName = "boxtower"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit statuses.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInput       = 2
	ExitInfeasible  = 3
	ExitInterrupted = 130
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	stdout     io.Writer
	configPath string
	verbose    bool
}

// New creates a CLI that writes documents to stdout and logs to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		Config: config.Default(),
		stdout: stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Boxtower draws dependency graphs as stacked box towers",
		Long:          `Boxtower reads a BOX file of named items and their dependencies and draws every item as a box resting exactly on its direct dependencies, with a ground box at the base.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/boxtower/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.scrapeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	config.LoadDotEnv()
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return coded.Wrap(coded.ErrCodeInvalidInput, err, "cannot load config")
	}
	c.Config = cfg
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.LayoutTTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// openCache honours cache.url, then cache.dir, then the user cache
// directory. A cache directory that cannot be determined disables caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if u := c.Config.Cache.URL; u != "" {
		return cache.Open(ctx, u)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// readInput reads a document from path, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	if err := coded.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := coded.ValidateDocument(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// exitError carries an exit status for a failure that was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	switch coded.Classify(err).Code {
	case coded.ErrCodeInvalidInput, coded.ErrCodeInvalidSyntax, coded.ErrCodeInvalidFormat,
		coded.ErrCodeInvalidStyle, coded.ErrCodeInvalidPath,
		coded.ErrCodeDuplicateNode, coded.ErrCodeUnknownDependency, coded.ErrCodeUnknownNode,
		coded.ErrCodePackageNotFound:
		return ExitInput
	case coded.ErrCodeLayoutInfeasible:
		return ExitInfeasible
	case coded.ErrCodeCanceled:
		return ExitInterrupted
	default:
		return ExitError
	}
}

// Report prints err for the user unless a command already did, and returns
// the exit status.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	var ee *exitError
	if err != nil && !errors.As(err, &ee) && code != ExitInterrupted {
		fmt.Fprintln(w, styleIconError.Render(iconError)+" "+describe(err))
	}
	return code
}

// describe prefers the cause for input errors, since the line number
// lives there.
func describe(err error) string {
	e := coded.Classify(err)
	switch {
	case e.Code == coded.ErrCodeInternal:
		return err.Error()
	case e.Code == coded.ErrCodeLayoutInfeasible:
		return e.Message
	case e.Cause != nil:
		return e.Cause.Error()
	}
	return e.Message
}
