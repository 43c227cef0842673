package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vk/scriptassoc/internal/app"
	"github.com/vk/scriptassoc/internal/engine"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	db          string
	engines     string
	env         []string
	envFile     string
	outputDir   string
	haltGrace   time.Duration
	progressURL string
	logFormat   string
	logLevel    string
}

func (o *options) config() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		DBPath:      o.db,
		EnginesPath: o.engines,
		Env:         o.env,
		EnvFile:     o.envFile,
		OutputDir:   o.outputDir,
		HaltGrace:   o.haltGrace,
		ProgressURL: o.progressURL,
		LogFormat:   o.logFormat,
		LogLevel:    o.logLevel,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

// command bundles what subcommands need to build an App.
type command struct {
	outW    io.Writer
	opts    *options
	modules []engine.Module
}

// withApp builds an App from the flags, runs fn and closes the App.
func (c *command) withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, err := c.opts.config()
	if err != nil {
		return err
	}
	a, err := app.NewApp(ctx, c.outW, cfg, c.modules...)
	if err != nil {
		var cfgErr *app.ConfigError
		if errors.As(err, &cfgErr) {
			return usageError(err)
		}
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// NewRootCommand builds the command tree. Modules replace the core engine
// modules when given.
func NewRootCommand(outW io.Writer, modules ...engine.Module) *cobra.Command {
	c := &command{outW: outW, opts: &options{}, modules: modules}

	root := &cobra.Command{
		Use:   "scriptassoc",
		Short: "Run scripts against project data tables",
		Long: `scriptassoc runs script associations: a script file bound to a list
of data tables and groups from a project database. Scripts are dispatched
to the engine that handles their file extension.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	f := root.PersistentFlags()
	f.StringVar(&c.opts.db, "db", "", "Path to the project database.")
	f.StringVar(&c.opts.engines, "engines", "", "Engine manifest file or directory.")
	f.StringArrayVar(&c.opts.env, "env", nil, "Script path override as KEY=VALUE. Repeatable.")
	f.StringVar(&c.opts.envFile, "env-file", "", "File of KEY=VALUE script path overrides.")
	f.StringVar(&c.opts.outputDir, "output-dir", ".", "Directory scripts write their output to.")
	f.DurationVar(&c.opts.haltGrace, "halt-grace", 0, "How long a halted script may take to stop.")
	f.StringVar(&c.opts.progressURL, "progress-url", "", "socket.io server to mirror progress to.")
	f.StringVar(&c.opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	f.StringVar(&c.opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	root.AddCommand(
		c.runCommand(),
		c.listCommand(),
		c.enginesCommand(),
		c.seedCommand(),
		c.assocCommand(),
	)
	return root
}

// Execute runs the command line in args.
func Execute(ctx context.Context, outW io.Writer, args []string, modules ...engine.Module) error {
	root := NewRootCommand(outW, modules...)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	return err
}

// checkArgs reports argument count errors as usage errors; cobra's
// validators do not go through the flag error func.
func checkArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, argv []string) error {
		if err := v(cmd, argv); err != nil {
			return usageError(fmt.Errorf("%s: %w", cmd.CommandPath(), err))
		}
		return nil
	}
}
