package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/devkit/internal/planner"
)

var (
	upgradeDryRun       bool
	upgradeSkipPackages bool
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade devkit configuration to the current version",
	Long: `Refresh devkit-owned files, remove deprecated paths, and update managed
configs that you have not edited.

A managed config whose content no longer matches what devkit generates is
treated as hand-edited: it is left untouched and reported, never
overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(planner.ModeUpgrade, upgradeDryRun, upgradeSkipPackages)
	},
}

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeDryRun, "dry-run", false, "Show what would change without changing it")
	upgradeCmd.Flags().BoolVar(&upgradeSkipPackages, "skip-packages", false, "Do not invoke the package manager")
}
