package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the root command for devkit.
var rootCmd = &cobra.Command{
	Use:     "devkit",
	Version: "dev",
	Short:   "Install and maintain lint, format, and agent-workflow configuration",
	Long: `devkit reconciles a project against a declarative configuration schema.

It installs linting, formatting, and AI-agent-workflow configuration into a
host project, upgrades it in place without clobbering your customizations,
and removes it cleanly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the devkit CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
