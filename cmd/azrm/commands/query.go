package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fivetwenty-io/azrm/pkg/azrm"
	"github.com/fivetwenty-io/azrm/pkg/resources"
)

// queryFlags are shared by query and exists.
type queryFlags struct {
	resourceGroup string
	name          string
	parent        string
	where         []string
	jq            string
}

func (f *queryFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.resourceGroup, "resource-group", "g", "", "resource group to scope the query to")
	fs.StringVarP(&f.name, "name", "n", "", "name of a single resource")
	fs.StringVarP(&f.parent, "parent", "p", "", "enclosing resource (virtual network, SQL server, storage account)")
	fs.StringArrayVarP(&f.where, "where", "w", nil, "filter rows, column=value, column!=value, column~=regexp or column=in:a,b")
	fs.StringVar(&f.jq, "jq", "", "filter rows with a jq expression evaluated on the raw resource")
}

func (f *queryFlags) query() resources.Query {
	return resources.Query{
		ResourceGroup: f.resourceGroup,
		Name:          f.name,
		Parent:        f.parent,
	}
}

func (f *queryFlags) predicates() ([]azrm.Predicate, error) {
	preds := make([]azrm.Predicate, 0, len(f.where)+1)

	for _, expr := range f.where {
		pred, err := azrm.ParsePredicate(expr)
		if err != nil {
			return nil, err
		}

		preds = append(preds, pred)
	}

	if f.jq != "" {
		pred, err := azrm.JQ(f.jq)
		if err != nil {
			return nil, err
		}

		preds = append(preds, pred)
	}

	return preds, nil
}

// singular reports whether the flags address one named resource.
func (f *queryFlags) singular(kind resources.Kind) bool {
	return f.name != "" && kind.HasSingular()
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var (
		flags   queryFlags
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "query KIND",
		Short: "Query resources of one kind",
		Long: `Query the resources of one kind in the configured subscription.

Collection queries print one row per resource, projected onto the columns
of the kind. With --name a single resource is fetched and printed as is.
Run 'azrm kinds' to list the kinds and their columns.`,
		Example: `  azrm query virtual_machines --resource-group prod --where platforms=linux
  azrm query storage_accounts --columns names,https_only --output json
  azrm query virtual_machines -g prod -n web-01 --output yaml
  azrm query network_security_groups --jq '.properties.securityRules | length > 0'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			kind, err := resources.LookupKind(args[0])
			if err != nil {
				return err
			}

			preds, err := flags.predicates()
			if err != nil {
				return err
			}

			if len(preds) > 0 && flags.singular(kind) {
				return ErrFiltersNeedCollection
			}

			config, err := loadClientConfig()
			if err != nil {
				return err
			}

			config.Logger = azrm.NewSlogLogger(newLogger(cmd.ErrOrStderr()))

			client, err := connect(cmd.Context(), config)
			if err != nil {
				return err
			}

			header, records, err := runQuery(cmd.Context(), kind, client.Resources, &flags, preds)
			if err != nil {
				return err
			}

			header, records, err = selectColumns(header, records, columns)
			if err != nil {
				return err
			}

			return renderRecords(cmd.OutOrStdout(), format, header, records)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "comma separated columns to print (default all)")

	return cmd
}

// runQuery returns the column names and the rows to print.
func runQuery(ctx context.Context, kind resources.Kind, r *resources.Resources, flags *queryFlags,
	preds []azrm.Predicate,
) ([]string, []*azrm.Record, error) {
	if flags.singular(kind) {
		single, err := kind.Single(ctx, r, flags.query())
		if err != nil {
			return nil, nil, err
		}

		exists, err := single.Exists()
		if err != nil {
			return nil, nil, fmt.Errorf("querying %s %s: %w", kind.Name, flags.name, err)
		}

		if !exists {
			return nil, nil, fmt.Errorf("%w: %s %s", ErrNoResult, kind.Name, flags.name)
		}

		return single.Record().Names(), []*azrm.Record{single.Record()}, nil
	}

	plural, err := kind.Collection(ctx, r, flags.query())
	if err != nil {
		return nil, nil, err
	}

	if len(preds) > 0 {
		plural, err = plural.Where(preds...)
		if err != nil {
			return nil, nil, fmt.Errorf("filtering %s: %w", kind.Name, err)
		}
	}

	table, err := plural.Table()
	if err != nil {
		return nil, nil, fmt.Errorf("querying %s: %w", kind.Name, err)
	}

	return table.Columns(), table.Entries(), nil
}

// selectColumns narrows the rows to the requested columns, in the order
// given. An empty request keeps everything.
func selectColumns(header []string, records []*azrm.Record, requested []string) ([]string, []*azrm.Record, error) {
	if len(requested) == 0 {
		return header, records, nil
	}

	known := make(map[string]string, len(header))
	for _, name := range header {
		known[strings.ToLower(name)] = name
	}

	selected := make([]string, 0, len(requested))

	for _, name := range requested {
		canonical, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", azrm.ErrUnknownColumn, name)
		}

		selected = append(selected, canonical)
	}

	out := make([]*azrm.Record, len(records))

	for i, rec := range records {
		fields := make([]azrm.Field, len(selected))
		for j, name := range selected {
			v, _ := rec.Lookup(name)
			fields[j] = azrm.F(name, v)
		}

		out[i] = azrm.NewRecord(fields...)
	}

	return selected, out, nil
}
