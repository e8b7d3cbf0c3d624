package planner

import (
	"bytes"
	"fmt"

	"github.com/danieljhkim/devkit/internal/fsops"
	"github.com/danieljhkim/devkit/internal/jsonmerge"
	"github.com/danieljhkim/devkit/internal/textpatch"
)

// ExecError reports a failed action. Execution stops at the first
// failure; already-applied actions stay applied, and rerunning the same
// mode later plans only the remaining delta.
type ExecError struct {
	// Kind and Path identify the failing action.
	Kind ActionKind
	Path string

	// AppliedCount is how many actions completed before the failure.
	AppliedCount int

	// Err is the underlying failure.
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s %s failed after %d applied actions: %v", e.Kind, e.Path, e.AppliedCount, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Execute applies the plan's actions in order. Mutations happen only
// here; a dry-run caller simply never calls Execute.
func Execute(plan *Plan, fs fsops.FS) error {
	for i, action := range plan.Actions {
		if err := fs.ValidateRelPath(action.Path); err != nil {
			return &ExecError{Kind: action.Kind, Path: action.Path, AppliedCount: i, Err: err}
		}
		if err := executeAction(plan.Root, action, fs); err != nil {
			return &ExecError{Kind: action.Kind, Path: action.Path, AppliedCount: i, Err: err}
		}
	}
	plan.Applied = true
	return nil
}

func executeAction(root string, action Action, fs fsops.FS) error {
	target := abs(root, action.Path)

	switch action.Kind {
	case ActionMkdir:
		return fs.MkdirAll(target, 0755)

	case ActionWrite:
		return fs.AtomicWrite(target, action.Content, 0644)

	case ActionRemove:
		// Already absent is a silent no-op, never an error.
		exists, err := fs.Exists(target)
		if err != nil {
			return fmt.Errorf("failed to check path: %w", err)
		}
		if !exists {
			return nil
		}
		return fs.RemoveAll(target)

	case ActionRemoveDir:
		return removeDirIfEmpty(target, fs)

	case ActionJSONMerge:
		return executeJSONMerge(target, *action.Merge, fs)

	case ActionJSONUnmerge:
		return executeJSONUnmerge(target, *action.Merge, action.Full, fs)

	case ActionPatchApply:
		return executePatchApply(target, *action.Patch, fs)

	case ActionPatchRemove:
		return executePatchRemove(target, *action.Patch, fs)

	default:
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

// removeDirIfEmpty removes a directory only when it has no entries. A
// directory still holding preserved or user content is left in place.
func removeDirIfEmpty(target string, fs fsops.FS) error {
	exists, err := fs.Exists(target)
	if err != nil {
		return fmt.Errorf("failed to check directory: %w", err)
	}
	if !exists {
		return nil
	}
	empty, err := fs.IsDirEmpty(target)
	if err != nil {
		return fmt.Errorf("failed to inspect directory: %w", err)
	}
	if !empty {
		return nil
	}
	return fs.Remove(target)
}

func executeJSONMerge(target string, def jsonmerge.Def, fs fsops.FS) error {
	cur, exists, err := readIfExists(fs, target)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}
	merged, err := jsonmerge.Merge(cur, def)
	if err != nil {
		return err
	}
	if exists && bytes.Equal(cur, merged) {
		return nil
	}
	return fs.AtomicWrite(target, merged, 0644)
}

func executeJSONUnmerge(target string, def jsonmerge.Def, full bool, fs fsops.FS) error {
	cur, exists, err := readIfExists(fs, target)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}
	if !exists {
		return nil
	}
	rest, err := jsonmerge.Unmerge(cur, def, full)
	if err != nil {
		return err
	}
	if bytes.Equal(cur, rest) {
		return nil
	}
	if jsonmerge.IsEmptyDoc(rest) {
		return fs.Remove(target)
	}
	return fs.AtomicWrite(target, rest, 0644)
}

func executePatchApply(target string, def textpatch.Def, fs fsops.FS) error {
	cur, exists, err := readIfExists(fs, target)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}
	out, changed := textpatch.Apply(cur, def)
	if exists && !changed {
		return nil
	}
	return fs.AtomicWrite(target, out, 0644)
}

func executePatchRemove(target string, def textpatch.Def, fs fsops.FS) error {
	cur, exists, err := readIfExists(fs, target)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}
	if !exists {
		return nil
	}
	rest, removed := textpatch.Remove(cur, def)
	if !removed {
		return nil
	}
	if textpatch.IsBlank(rest) {
		return fs.Remove(target)
	}
	return fs.AtomicWrite(target, rest, 0644)
}
