package planner

import (
	"github.com/danieljhkim/devkit/internal/jsonmerge"
	"github.com/danieljhkim/devkit/internal/textpatch"
)

// Mode selects the reconciliation traversal.
type Mode string

const (
	// ModeInstall brings a project up to the configured state without
	// overwriting anything that already exists independently.
	ModeInstall Mode = "install"

	// ModeUpgrade refreshes owned content, rewrites unmodified managed
	// files, and removes deprecated paths.
	ModeUpgrade Mode = "upgrade"

	// ModeUninstall removes owned content and reverses merges and
	// patches, keeping managed files and use-independent entries.
	ModeUninstall Mode = "uninstall"

	// ModeUninstallFull additionally removes managed files and retained
	// merge entries.
	ModeUninstallFull Mode = "uninstall-full"
)

// ActionKind identifies a filesystem mutation type.
type ActionKind string

const (
	ActionMkdir       ActionKind = "mkdir"
	ActionWrite       ActionKind = "write"
	ActionRemove      ActionKind = "remove"
	ActionRemoveDir   ActionKind = "remove_dir"
	ActionJSONMerge   ActionKind = "json_merge"
	ActionJSONUnmerge ActionKind = "json_unmerge"
	ActionPatchApply  ActionKind = "patch_apply"
	ActionPatchRemove ActionKind = "patch_remove"
)

// Action is a single planned filesystem mutation. Paths are relative to
// the project root.
type Action struct {
	// Kind is the mutation type.
	Kind ActionKind

	// Path is the target path relative to the project root.
	Path string

	// Content is the rendered file body for write actions.
	Content []byte

	// Merge is the definition for json_merge and json_unmerge actions.
	Merge *jsonmerge.Def

	// Patch is the definition for patch_apply and patch_remove actions.
	Patch *textpatch.Def

	// Full marks a json_unmerge as the deeper uninstall-full pass that
	// also strips retained entries.
	Full bool
}

// Plan is the ordered action list computed for one mode invocation, plus
// derived summaries. A plan is computed fresh per invocation and consumed
// at most once by Execute.
type Plan struct {
	// Mode is the traversal that produced this plan.
	Mode Mode

	// Root is the absolute project root the plan applies to.
	Root string

	// Actions is the ordered list of mutations.
	Actions []Action

	// Created lists file paths the plan brings into existence.
	Created []string

	// Updated lists file paths the plan modifies.
	Updated []string

	// Removed lists file paths the plan deletes.
	Removed []string

	// Skipped lists managed files left untouched because their content
	// no longer matches generated output (hand-edited).
	Skipped []string

	// PackagesToInstall are packages the project should gain.
	PackagesToInstall []string

	// PackagesToRemove are packages proposed for removal (full uninstall
	// only).
	PackagesToRemove []string

	// Applied records whether Execute has run this plan.
	Applied bool
}

// IsNoop reports whether the plan changes nothing on disk.
func (p *Plan) IsNoop() bool {
	return len(p.Actions) == 0
}

func (p *Plan) add(a Action) {
	p.Actions = append(p.Actions, a)
}
