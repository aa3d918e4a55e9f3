package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/azrm/internal/constants"
)

// ErrUnknownConfigKey is returned by config set for keys azrm does not read.
var ErrUnknownConfigKey = errors.New("unknown configuration key")

// settableKeys are the keys config set accepts.
var settableKeys = []string{
	"subscription_id", "tenant_id", "client_id", "client_secret", "token_url",
	"cloud", "endpoint", "profile", "output", "timeout", "retry_max",
	"requests_per_second", "user_agent", "cache.type", "cache.memory.max_size",
	"cache.memory.cleanup_interval", "cache.nats.url", "cache.nats.bucket",
}

var secretKeys = []string{"client_secret", "token"}

// Settings is the effective configuration as printed by config show.
type Settings struct {
	ConfigFile     string `json:"config_file"     yaml:"config_file"`
	SubscriptionID string `json:"subscription_id" yaml:"subscription_id"`
	TenantID       string `json:"tenant_id"       yaml:"tenant_id"`
	ClientID       string `json:"client_id"       yaml:"client_id"`
	ClientSecret   string `json:"client_secret"   yaml:"client_secret"`
	Token          string `json:"token"           yaml:"token"`
	TokenURL       string `json:"token_url"       yaml:"token_url"`
	Cloud          string `json:"cloud"           yaml:"cloud"`
	Endpoint       string `json:"endpoint"        yaml:"endpoint"`
	Profile        string `json:"profile"         yaml:"profile"`
	Output         string `json:"output"          yaml:"output"`
	Cache          string `json:"cache"           yaml:"cache"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the azrm configuration stored in $HOME/.azrm/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func currentSettings() Settings {
	cache := viper.GetString("cache.type")
	if cache == "" {
		cache = "none"
	}

	return Settings{
		ConfigFile:     viper.ConfigFileUsed(),
		SubscriptionID: firstNonEmpty(viper.GetString("subscription_id"), os.Getenv("AZURE_SUBSCRIPTION_ID")),
		TenantID:       firstNonEmpty(viper.GetString("tenant_id"), os.Getenv("AZURE_TENANT_ID")),
		ClientID:       viper.GetString("client_id"),
		ClientSecret:   mask(viper.GetString("client_secret")),
		Token:          mask(viper.GetString("token")),
		TokenURL:       viper.GetString("token_url"),
		Cloud:          firstNonEmpty(viper.GetString("cloud"), "public"),
		Endpoint:       viper.GetString("endpoint"),
		Profile:        activeProfileName(),
		Output:         firstNonEmpty(viper.GetString("output"), OutputFormatTable),
		Cache:          cache,
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}

	return Masked
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration after flags, environment and config file are merged. Secrets are masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			settings := currentSettings()

			if format != OutputFormatTable {
				return writeStructured(cmd.OutOrStdout(), format, settings)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")
			_ = table.Append("Config File", firstNonEmpty(settings.ConfigFile, NotAvailable))
			_ = table.Append("Subscription", settings.SubscriptionID)
			_ = table.Append("Tenant", settings.TenantID)
			_ = table.Append("Client ID", settings.ClientID)
			_ = table.Append("Client Secret", settings.ClientSecret)
			_ = table.Append("Token", settings.Token)
			_ = table.Append("Token URL", settings.TokenURL)
			_ = table.Append("Cloud", settings.Cloud)
			_ = table.Append("Endpoint", settings.Endpoint)
			_ = table.Append("Profile", settings.Profile)
			_ = table.Append("Output", settings.Output)
			_ = table.Append("Cache", settings.Cache)

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it to the config file.\n\nKeys: " + strings.Join(settableKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.ToLower(args[0]), args[1]
			if !slices.Contains(settableKeys, key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			viper.Set(key, value)

			if err := saveConfig(); err != nil {
				return err
			}

			shown := value
			if slices.Contains(secretKeys, key) {
				shown = Masked
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", key, shown)

			return nil
		},
	}
}

// saveConfig writes the merged configuration to the file in use, or to
// $HOME/.azrm/config.yml when none was read.
func saveConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}

		path = filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+".yml")
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// The file may hold a client secret.
	if err := os.Chmod(path, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to restrict config file: %w", err)
	}

	return nil
}
