package commands

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/azrm/pkg/resources"
)

type kindSummary struct {
	Name        string   `json:"name"        yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Requires    []string `json:"requires"    yaml:"requires"`
	Collection  bool     `json:"collection"  yaml:"collection"`
	Single      bool     `json:"single"      yaml:"single"`
	Columns     []string `json:"columns"     yaml:"columns"`
}

// NewKindsCommand creates the kinds command.
func NewKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the resource kinds azrm can query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			kinds := resources.Kinds()
			summaries := make([]kindSummary, 0, len(kinds))

			for _, kind := range kinds {
				requires := kind.Requires
				if requires == nil {
					requires = []string{}
				}

				summaries = append(summaries, kindSummary{
					Name:        kind.Name,
					Description: kind.Description,
					Requires:    requires,
					Collection:  kind.HasCollection(),
					Single:      kind.HasSingular(),
					Columns:     kind.Columns(),
				})
			}

			if format != OutputFormatTable {
				return writeStructured(cmd.OutOrStdout(), format, summaries)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Kind", "Description", "Requires", "By Name")

			for _, s := range summaries {
				requires := NotAvailable
				if len(s.Requires) > 0 {
					requires = "--" + strings.Join(s.Requires, ", --")
				}

				_ = table.Append(s.Name, s.Description, requires, mark(s.Single))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
