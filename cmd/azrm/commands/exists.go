package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
	"github.com/fivetwenty-io/azrm/pkg/resources"
)

// Exit statuses of the exists command.
const (
	ExitExists    = 0
	ExitNotExists = 1
	ExitFailed    = 2
)

// NewExistsCommand creates the exists command.
func NewExistsCommand() *cobra.Command {
	var (
		flags queryFlags
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "exists KIND",
		Short: "Check whether a resource or a matching collection exists",
		Long: `Check whether a resource exists.

With --name the named resource is looked up and a 404 answer counts as
absent. Otherwise the collection, narrowed by --where and --jq, must have
at least one row. The exit status is 0 when it exists, 1 when it does not
and 2 when the query failed.`,
		Example: `  azrm exists resource_groups --name prod
  azrm exists virtual_machines -g prod --where platforms=windows
  azrm exists blob_container_acls -g prod --parent logsaccount --name logs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := runExists(cmd, args[0], &flags)
			if err != nil {
				return &ExitError{Code: ExitFailed, Err: err}
			}

			if !quiet {
				printExists(cmd.OutOrStdout(), exists)
			}

			if !exists {
				return &ExitError{Code: ExitNotExists}
			}

			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only set the exit status")

	return cmd
}

func runExists(cmd *cobra.Command, kindName string, flags *queryFlags) (bool, error) {
	kind, err := resources.LookupKind(kindName)
	if err != nil {
		return false, err
	}

	preds, err := flags.predicates()
	if err != nil {
		return false, err
	}

	if len(preds) > 0 && flags.singular(kind) {
		return false, ErrFiltersNeedCollection
	}

	config, err := loadClientConfig()
	if err != nil {
		return false, err
	}

	config.Logger = azrm.NewSlogLogger(newLogger(cmd.ErrOrStderr()))

	client, err := connect(cmd.Context(), config)
	if err != nil {
		return false, err
	}

	return checkExists(cmd.Context(), kind, client.Resources, flags, preds)
}

func checkExists(ctx context.Context, kind resources.Kind, r *resources.Resources, flags *queryFlags,
	preds []azrm.Predicate,
) (bool, error) {
	if len(preds) == 0 {
		exists, err := kind.Exists(ctx, r, flags.query())
		if flags.name != "" && azrm.IsNotFound(err) {
			return false, nil
		}

		return exists, err
	}

	plural, err := kind.Collection(ctx, r, flags.query())
	if err != nil {
		return false, err
	}

	plural, err = plural.Where(preds...)
	if err != nil {
		return false, fmt.Errorf("filtering %s: %w", kind.Name, err)
	}

	return plural.Exists()
}

func printExists(w io.Writer, exists bool) {
	yes := color.New(color.FgGreen)
	no := color.New(color.FgRed)

	if !colorEnabled(w) {
		yes.DisableColor()
		no.DisableColor()
	}

	if exists {
		_, _ = yes.Fprintln(w, "true")

		return
	}

	_, _ = no.Fprintln(w, "false")
}
