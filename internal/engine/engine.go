// Package engine provides the core orchestration for devkit operations.
//
// The engine sits between CLI commands and the reconciliation machinery.
// One Run call builds the project context, computes the plan for the
// requested mode, and (unless dry-run) executes it and invokes the
// package manager. Package-manager failures are non-fatal: the file-level
// changes are still considered applied and the failure surfaces as a
// warning carrying the manual command.
package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/devkit/internal/content"
	"github.com/danieljhkim/devkit/internal/fsops"
	"github.com/danieljhkim/devkit/internal/pkgmgr"
	"github.com/danieljhkim/devkit/internal/planner"
	"github.com/danieljhkim/devkit/internal/project"
	"github.com/danieljhkim/devkit/internal/schema"
)

// Engine orchestrates all devkit operations.
// It is the main API surface called by the CLI.
type Engine struct {
	schema *schema.Schema
	store  *content.Store
	fs     fsops.FS
	pkgs   pkgmgr.Manager
}

// New creates a new Engine with the given dependencies.
func New(s *schema.Schema, store *content.Store, fs fsops.FS, pkgs pkgmgr.Manager) *Engine {
	return &Engine{
		schema: s,
		store:  store,
		fs:     fs,
		pkgs:   pkgs,
	}
}

// Run executes one reconciliation invocation.
func (e *Engine) Run(ctx context.Context, req *Request) (*Result, error) {
	pctx, err := project.Build(req.CWD)
	if err != nil {
		return nil, fmt.Errorf("failed to build project context: %w", err)
	}

	plan, err := planner.ComputePlan(e.schema, req.Mode, pctx, e.fs, e.store)
	if err != nil {
		return nil, fmt.Errorf("failed to compute plan: %w", err)
	}

	result := &Result{Plan: plan, Context: pctx}
	if !pctx.IsGitRepo {
		result.Warnings = append(result.Warnings, "not a git repository: changes cannot be reverted with git")
	}
	if req.DryRun {
		return result, nil
	}

	if err := planner.Execute(plan, e.fs); err != nil {
		// Already-applied actions stay applied; rerunning the same mode
		// later plans only the remaining delta.
		return result, err
	}

	if !req.SkipPackages {
		e.reconcilePackages(ctx, req, result, pctx)
	}
	return result, nil
}

// reconcilePackages installs or removes packages per the plan. Failures
// are warnings, never errors: the user gets the exact command to run by
// hand.
func (e *Engine) reconcilePackages(ctx context.Context, req *Request, result *Result, pctx *project.Context) {
	plan := result.Plan

	switch req.Mode {
	case planner.ModeInstall, planner.ModeUpgrade:
		if len(plan.PackagesToInstall) == 0 {
			return
		}
		if err := e.pkgs.Install(ctx, pctx.WorkingDir, pctx.PackageManager, plan.PackagesToInstall); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"package installation failed (%v); run manually: %s",
				err, pkgmgr.InstallCommand(pctx.PackageManager, plan.PackagesToInstall)))
		} else {
			result.PackagesChanged = true
		}

	case planner.ModeUninstallFull:
		if len(plan.PackagesToRemove) == 0 {
			return
		}
		if err := e.pkgs.Remove(ctx, pctx.WorkingDir, pctx.PackageManager, plan.PackagesToRemove); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"package removal failed (%v); run manually: %s",
				err, pkgmgr.RemoveCommand(pctx.PackageManager, plan.PackagesToRemove)))
		} else {
			result.PackagesChanged = true
		}
	}
}
