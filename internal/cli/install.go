package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/devkit/internal/planner"
)

var (
	installDryRun       bool
	installSkipPackages bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install devkit configuration into the current project",
	Long: `Install linting, formatting, and agent-workflow configuration.

Existing files that devkit does not own are never overwritten: managed
configs are only created when absent, JSON documents are merged key by
key, and text files gain a marker-delimited block that uninstall can
remove exactly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(planner.ModeInstall, installDryRun, installSkipPackages)
	},
}

func init() {
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Show what would change without changing it")
	installCmd.Flags().BoolVar(&installSkipPackages, "skip-packages", false, "Do not invoke the package manager")
}
