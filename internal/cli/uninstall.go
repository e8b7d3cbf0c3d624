package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/devkit/internal/planner"
)

var (
	uninstallDryRun       bool
	uninstallFull         bool
	uninstallSkipPackages bool
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove devkit configuration from the current project",
	Long: `Remove devkit-owned files and reverse every merge and patch, restoring
the touched files to their pre-install content.

Managed configs (ESLint, Prettier) and the lint/format scripts stay in
place because they remain useful on their own; pass --full to strip those
too and to remove the packages devkit installed. Anything under
.devkit/archive is preserved in every mode.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := planner.ModeUninstall
		if uninstallFull {
			mode = planner.ModeUninstallFull
		}
		return runReconcile(mode, uninstallDryRun, uninstallSkipPackages)
	},
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallDryRun, "dry-run", false, "Show what would change without changing it")
	uninstallCmd.Flags().BoolVar(&uninstallFull, "full", false, "Also remove managed configs, retained scripts, and installed packages")
	uninstallCmd.Flags().BoolVar(&uninstallSkipPackages, "skip-packages", false, "Do not invoke the package manager")
}
