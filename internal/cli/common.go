package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/devkit/internal/content"
	"github.com/danieljhkim/devkit/internal/engine"
	"github.com/danieljhkim/devkit/internal/fsops"
	"github.com/danieljhkim/devkit/internal/pkgmgr"
	"github.com/danieljhkim/devkit/internal/planner"
	"github.com/danieljhkim/devkit/internal/schema"
)

// newEngine creates a new engine with real implementations of all
// dependencies. Schema integrity errors surface here, before any project
// is touched.
func newEngine() (*engine.Engine, error) {
	store, err := content.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to load content store: %w", err)
	}

	s, err := schema.Default(store)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return engine.New(s, store, fsops.NewRealFS(), pkgmgr.NewExecManager()), nil
}

// runReconcile is the shared driver behind install, upgrade, and
// uninstall.
func runReconcile(mode planner.Mode, dryRun, skipPackages bool) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	req := &engine.Request{
		CWD:          cwd,
		Mode:         mode,
		DryRun:       dryRun,
		SkipPackages: skipPackages,
	}

	result, err := eng.Run(context.Background(), req)
	if err != nil {
		var execErr *planner.ExecError
		if errors.As(err, &execErr) {
			PrintError(fmt.Sprintf("%s %s failed: %v", execErr.Kind, execErr.Path, execErr.Err))
			PrintInfo(fmt.Sprintf("%s applied before the failure; rerun %q to finish the remaining delta",
				PrintCount(execErr.AppliedCount, "action", "actions"), mode))
		}
		return err
	}

	if dryRun {
		printDryRun(result)
		return nil
	}
	printResult(result)
	return nil
}

// printDryRun renders the plan without applying it.
func printDryRun(result *engine.Result) {
	plan := result.Plan

	PrintSection("Dry Run")
	if plan.IsNoop() {
		PrintEmptyState("Nothing to do - project is already reconciled")
	} else {
		PrintInfo(fmt.Sprintf("Would apply %s", PrintCount(len(plan.Actions), "action", "actions")))
		ops := make([]string, 0, len(plan.Actions))
		for _, a := range plan.Actions {
			ops = append(ops, fmt.Sprintf("%s: %s", a.Kind, a.Path))
		}
		PrintList(ops, 1)
	}

	printSummaries(result)
	for _, w := range result.Warnings {
		PrintWarning(w)
	}
}

// printResult renders the applied plan's summaries.
func printResult(result *engine.Result) {
	plan := result.Plan

	if plan.IsNoop() {
		PrintSuccess("Nothing to do - project is already reconciled")
	} else {
		PrintSuccess(fmt.Sprintf("Applied %s", PrintCount(len(plan.Actions), "action", "actions")))
	}
	printSummaries(result)

	if result.PackagesChanged {
		if len(plan.PackagesToInstall) > 0 {
			PrintLabelValue("Packages installed", fmt.Sprintf("%d", len(plan.PackagesToInstall)))
		}
		if len(plan.PackagesToRemove) > 0 {
			PrintLabelValue("Packages removed", fmt.Sprintf("%d", len(plan.PackagesToRemove)))
		}
	}
	for _, w := range result.Warnings {
		PrintWarning(w)
	}
}

func printSummaries(result *engine.Result) {
	plan := result.Plan
	if len(plan.Created) > 0 {
		PrintSubsection(fmt.Sprintf("Created (%d):", len(plan.Created)))
		PrintList(plan.Created, 1)
	}
	if len(plan.Updated) > 0 {
		PrintSubsection(fmt.Sprintf("Updated (%d):", len(plan.Updated)))
		PrintList(plan.Updated, 1)
	}
	if len(plan.Removed) > 0 {
		PrintSubsection(fmt.Sprintf("Removed (%d):", len(plan.Removed)))
		PrintList(plan.Removed, 1)
	}
	if len(plan.Skipped) > 0 {
		PrintSubsection(fmt.Sprintf("Left untouched (%d, hand-edited):", len(plan.Skipped)))
		PrintList(plan.Skipped, 1)
	}
}
