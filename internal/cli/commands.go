package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vk/scriptassoc/internal/app"
	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/progress"
)

const dialTimeout = 5 * time.Second

func (c *command) runCommand() *cobra.Command {
	var all bool
	var execute string
	cmd := &cobra.Command{
		Use:   "run [association...]",
		Short: "Execute associations as one batch",
		Long: `Execute stored associations by name, every stored association with --all,
or an ad-hoc list with --execute "script[:member+member][;...]".
Press Ctrl+C once to halt the batch.`,
		RunE: func(cmd *cobra.Command, names []string) error {
			if !all && execute == "" && len(names) == 0 {
				return usageError(errors.New("nothing to run: name associations, or use --all or --execute"))
			}
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				surface, closeSurface, err := c.surface(ctx)
				if err != nil {
					return err
				}
				defer closeSurface()

				summary, err := a.Execute(ctx, app.ExecuteRequest{
					Names:    names,
					All:      all,
					Execute:  execute,
					Progress: surface,
				})
				if err != nil {
					return err
				}
				if summary.Failed() {
					return &ExitError{Code: 1, Message: "one or more associations did not complete"}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Run every stored association.")
	cmd.Flags().StringVar(&execute, "execute", "", "Ad-hoc association list.")
	return cmd
}

// surface is the console, mirrored to a progress server when one is
// configured.
func (c *command) surface(ctx context.Context) (progress.Surface, func(), error) {
	console := progress.NewConsole(c.outW)
	stopWatch := console.WatchInterrupt()
	if c.opts.progressURL == "" {
		return console, stopWatch, nil
	}

	remote, err := progress.DialRemote(ctx, c.opts.progressURL, dialTimeout)
	if err != nil {
		stopWatch()
		return nil, nil, err
	}
	multi := progress.NewMulti(console, remote)
	ctxlog.FromContext(ctx).Debug("Progress mirrored to remote server.", "url", c.opts.progressURL)
	return multi, func() {
		multi.Close()
		remote.Close()
		stopWatch()
	}, nil
}

func (c *command) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored associations and their availability",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				listing, err := a.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(c.outW, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSTATUS\tSCRIPT\tMEMBERS\tDESCRIPTION")
				for _, l := range listing {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.Association.Name, l.Status,
						l.Association.ScriptPath, assoc.DisplayMembers(l.Association.Members), l.Association.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func (c *command) enginesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "Describe the available script engines",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(_ context.Context, a *app.App) error {
				describe, filters := a.Engines()
				fmt.Fprintln(c.outW, describe)
				for _, f := range filters {
					fmt.Fprintln(c.outW, "  "+f.String())
				}
				return nil
			})
		},
	}
}

func (c *command) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load a project from a YAML fixture",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return a.Seed(ctx, argv[0])
			})
		},
	}
}

func (c *command) assocCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assoc",
		Short: "Manage stored associations",
	}

	var description string
	add := &cobra.Command{
		Use:   "add <name> <script> [members]",
		Short: "Store a new association",
		Long: `Store a new association. Members are table paths and "Group:<name>"
references joined with " + ".`,
		Args: checkArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			as := assoc.Association{Name: argv[0], ScriptPath: argv[1], Description: description}
			if len(argv) == 3 {
				as.Members = argv[2]
			}
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.AddAssociation(ctx, as); err != nil {
					return err
				}
				fmt.Fprintf(c.outW, "Association '%s' added.\n", as.Name)
				return nil
			})
		},
	}
	add.Flags().StringVar(&description, "description", "", "Association description.")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored association",
		Args:  checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.DeleteAssociation(ctx, argv[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.outW, "Association '%s' deleted.\n", argv[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}
