package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/azrm/internal/constants"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// NewProfilesCommand creates the profiles command group.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect API version profiles",
		Long: `Inspect the API version profiles compiled into azrm.

A profile maps each resource provider and type to the api-version used to
query it. The active profile comes from --profile, the profile setting or
AZURE_REST_API_PROFILE, and defaults to latest.`,
	}

	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesShowCommand())
	cmd.AddCommand(newProfilesResolveCommand())

	return cmd
}

// activeProfileName returns the profile selected by configuration.
func activeProfileName() string {
	if name := viper.GetString("profile"); name != "" {
		return name
	}

	return azrm.ActiveProfileName(os.LookupEnv)
}

type profileSummary struct {
	Name    string `json:"name"    yaml:"name"`
	Default bool   `json:"default" yaml:"default"`
	Active  bool   `json:"active"  yaml:"active"`
	Entries int    `json:"entries" yaml:"entries"`
}

func newProfilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			registry := azrm.BuiltinProfiles()
			active := activeProfileName()

			summaries := make([]profileSummary, 0, len(registry.Names()))
			for _, name := range registry.Names() {
				profile, _ := registry.Lookup(name)
				summaries = append(summaries, profileSummary{
					Name:    name,
					Default: name == registry.DefaultName(),
					Active:  name == active,
					Entries: len(profile.Entries()),
				})
			}

			if format != OutputFormatTable {
				return writeStructured(cmd.OutOrStdout(), format, summaries)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Name", "Default", "Active", "Entries")

			for _, s := range summaries {
				_ = table.Append(s.Name, mark(s.Default), mark(s.Active), s.Entries)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newProfilesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [NAME]",
		Short: "Show the entries of a profile",
		Long:  "Show the provider, resource type and api-version entries of a profile. Without NAME the active profile is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			name := activeProfileName()
			if len(args) == 1 {
				name = args[0]
			}

			profile, ok := azrm.BuiltinProfiles().Lookup(name)
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
			}

			if format != OutputFormatTable {
				return writeStructured(cmd.OutOrStdout(), format, profile.Entries())
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Provider", "Resource Type", "API Version")

			for _, entry := range profile.Entries() {
				_ = table.Append(entry.Provider, entry.ResourceType, entry.APIVersion)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

type resolution struct {
	Profile      string `json:"profile"       yaml:"profile"`
	Provider     string `json:"provider"      yaml:"provider"`
	ResourceType string `json:"resource_type" yaml:"resource_type"`
	APIVersion   string `json:"api_version"   yaml:"api_version"`
	Fallback     bool   `json:"fallback"      yaml:"fallback"`
}

func resolveVersion(registry *azrm.ProfileRegistry, profileName, provider, resourceType string) resolution {
	fallback := true
	if profile, ok := registry.Lookup(profileName); ok {
		_, found := profile.Version(provider, resourceType)
		fallback = !found
	}

	return resolution{
		Profile:      profileName,
		Provider:     provider,
		ResourceType: resourceType,
		APIVersion:   registry.ResolveVersion(profileName, provider, resourceType),
		Fallback:     fallback,
	}
}

func newProfilesResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PROVIDER TYPE",
		Short: "Resolve the api-version of a resource type",
		Long: `Resolve the api-version used for a resource type under the active profile.

Types missing from the profile fall back to the default profile; the
fallback column says when that happened.`,
		Example: `  azrm profiles resolve Microsoft.Compute virtualMachines
  AZURE_REST_API_PROFILE=2019-03-01-hybrid azrm profiles resolve Microsoft.Sql servers`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			result := resolveVersion(azrm.BuiltinProfiles(), activeProfileName(), args[0], args[1])
			if result.APIVersion == "" {
				return fmt.Errorf("%w: %s/%s", constants.ErrUnknownResource, args[0], args[1])
			}

			if format != OutputFormatTable {
				return writeStructured(cmd.OutOrStdout(), format, result)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")
			_ = table.Append("Profile", result.Profile)
			_ = table.Append("Provider", result.Provider)
			_ = table.Append("Resource Type", result.ResourceType)
			_ = table.Append("API Version", result.APIVersion)
			_ = table.Append("Fallback", mark(result.Fallback))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func mark(b bool) string {
	if b {
		return "yes"
	}

	return ""
}
