package engine

import (
	"github.com/danieljhkim/devkit/internal/planner"
	"github.com/danieljhkim/devkit/internal/project"
)

// Request represents one reconciliation invocation.
type Request struct {
	// CWD is the host project root.
	CWD string

	// Mode is the reconciliation mode.
	Mode planner.Mode

	// DryRun computes and returns the plan without executing it.
	DryRun bool

	// SkipPackages suppresses package-manager invocation.
	SkipPackages bool
}

// Result represents the outcome of a reconciliation invocation.
type Result struct {
	// Plan is the computed plan. Plan.Applied reports whether it was
	// executed.
	Plan *planner.Plan

	// Context is the project snapshot the plan was computed against.
	Context *project.Context

	// PackagesChanged reports whether the package manager ran
	// successfully.
	PackagesChanged bool

	// Warnings are non-fatal problems (package manager failures, missing
	// git repository). The run still counts as successful.
	Warnings []string
}
