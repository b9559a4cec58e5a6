// Package cmd implements the htp command line: single drawing analysis and
// sequential batch runs over a directory of drawings.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tuya-yu/HeartDrawing/internal/infrastructure"
	"github.com/tuya-yu/HeartDrawing/internal/workflow"
)

var appVersion = "dev"

// SetVersion records the build version reported by `htp version`.
func SetVersion(v string) {
	appVersion = v
}

// Options carries the persistent flags shared by every subcommand.
type Options struct {
	ConfigPath string
	NoCache    bool
	LogLevel   string
	LogFormat  string
}

// RuntimeFactory builds the workflow runtime for one invocation. The
// returned release func closes anything the runtime holds open.
type RuntimeFactory func(opts *Options, logger *slog.Logger) (*workflow.Runtime, func() error, error)

type app struct {
	opts    Options
	factory RuntimeFactory
	logger  *slog.Logger
}

func (a *app) runtime() (*workflow.Runtime, func() error, error) {
	return a.factory(&a.opts, a.logger)
}

// Execute runs the htp root command with the default runtime.
func Execute(ctx context.Context) error {
	return NewRootCommand(DefaultRuntime).ExecuteContext(ctx)
}

// NewRootCommand assembles the command tree around factory.
func NewRootCommand(factory RuntimeFactory) *cobra.Command {
	a := &app{factory: factory}

	root := &cobra.Command{
		Use:   "htp",
		Short: "House-Tree-Person drawing screening",
		Long: `htp analyzes House-Tree-Person drawings with a vision-capable language
model and writes the screening report for each drawing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			logger, err := infrastructure.NewLogger(c.ErrOrStderr(), a.opts.LogFormat, a.opts.LogLevel)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.ConfigPath, "config", "config.toml", "config file")
	flags.BoolVar(&a.opts.NoCache, "no-cache", false, "bypass the response cache")
	flags.StringVar(&a.opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&a.opts.LogFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		newRunCommand(a),
		newBatchCommand(a),
		newVersionCommand(),
	)

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "htp %s\n", appVersion)
		},
	}
}
