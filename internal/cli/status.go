package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/devkit/internal/engine"
	"github.com/danieljhkim/devkit/internal/planner"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report what is installed, out of date, or hand-edited",
	Long: `Show how the current project compares to the configured state.

Status computes an upgrade plan without applying it: files that would be
created are missing, files that would be updated are out of date, and
managed files reported as left untouched carry your own edits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		result, err := eng.Run(context.Background(), &engine.Request{
			CWD:    cwd,
			Mode:   planner.ModeUpgrade,
			DryRun: true,
		})
		if err != nil {
			return err
		}

		plan := result.Plan
		PrintSection("Project Status")
		PrintLabelValue("Project", result.Context.ProjectName)
		PrintLabelValue("Package manager", result.Context.PackageManager)

		if plan.IsNoop() && len(plan.Skipped) == 0 && len(plan.PackagesToInstall) == 0 {
			PrintSuccess("Fully configured and up to date")
			return nil
		}

		if len(plan.Created) > 0 {
			PrintSubsection(fmt.Sprintf("Missing (%d):", len(plan.Created)))
			PrintList(plan.Created, 1)
		}
		if len(plan.Updated) > 0 {
			PrintSubsection(fmt.Sprintf("Out of date (%d):", len(plan.Updated)))
			PrintList(plan.Updated, 1)
		}
		if len(plan.Removed) > 0 {
			PrintSubsection(fmt.Sprintf("Deprecated (%d):", len(plan.Removed)))
			PrintList(plan.Removed, 1)
		}
		if len(plan.Skipped) > 0 {
			PrintSubsection(fmt.Sprintf("Hand-edited (%d):", len(plan.Skipped)))
			PrintList(plan.Skipped, 1)
		}
		if len(plan.PackagesToInstall) > 0 {
			PrintSubsection(fmt.Sprintf("Packages to install (%d):", len(plan.PackagesToInstall)))
			PrintList(plan.PackagesToInstall, 1)
		}

		PrintInfo("\nRun \"devkit upgrade\" to reconcile.")
		return nil
	},
}
