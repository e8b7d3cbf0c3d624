package planner

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/devkit/internal/content"
	"github.com/danieljhkim/devkit/internal/fsops"
	"github.com/danieljhkim/devkit/internal/hash"
	"github.com/danieljhkim/devkit/internal/jsonmerge"
	"github.com/danieljhkim/devkit/internal/packages"
	"github.com/danieljhkim/devkit/internal/project"
	"github.com/danieljhkim/devkit/internal/schema"
	"github.com/danieljhkim/devkit/internal/textpatch"
)

// ComputePlan diffs desired state against the filesystem for the given
// mode. It is pure apart from reads through the probe: a plan can be
// computed repeatedly and speculatively (dry-run) without side effects.
// Probe failures surface as an error with no partial plan.
func ComputePlan(s *schema.Schema, mode Mode, ctx *project.Context, probe fsops.Probe, store *content.Store) (*Plan, error) {
	plan := &Plan{Mode: mode, Root: ctx.WorkingDir}

	var err error
	switch mode {
	case ModeInstall:
		err = computeInstall(plan, s, ctx, probe, store, false)
	case ModeUpgrade:
		err = computeInstall(plan, s, ctx, probe, store, true)
	case ModeUninstall:
		err = computeUninstall(plan, s, ctx, probe, false)
	case ModeUninstallFull:
		err = computeUninstall(plan, s, ctx, probe, true)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// computeInstall handles install mode, and upgrade mode when upgrade is
// true. Upgrade is a superset: it additionally removes deprecated paths
// and refreshes owned files whose templates changed.
func computeInstall(plan *Plan, s *schema.Schema, ctx *project.Context, probe fsops.Probe, store *content.Store, upgrade bool) error {
	// Directories first so writes always have their parents. Emitted only
	// when missing, which keeps a repeated install at zero actions.
	for _, dir := range s.AllDirs() {
		exists, err := probe.Exists(abs(plan.Root, dir))
		if err != nil {
			return fmt.Errorf("failed to probe directory %s: %w", dir, err)
		}
		if !exists {
			plan.add(Action{Kind: ActionMkdir, Path: dir})
		}
	}

	// Migration cleanup: deprecated paths go away on upgrade.
	if upgrade {
		for _, dep := range s.DeprecatedPaths {
			exists, err := probe.Exists(abs(plan.Root, dep))
			if err != nil {
				return fmt.Errorf("failed to probe deprecated path %s: %w", dep, err)
			}
			if exists {
				plan.add(Action{Kind: ActionRemove, Path: dep})
				plan.Removed = append(plan.Removed, dep)
			}
		}
	}

	for _, p := range schema.SortedKeys(s.OwnedFiles) {
		def := s.OwnedFiles[p]
		if def.Condition != "" && !ctx.Fact(string(def.Condition)) {
			continue
		}
		want, err := store.Render(def.Ref, ctx)
		if err != nil {
			return err
		}
		cur, exists, err := readIfExists(probe, abs(plan.Root, p))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		switch {
		case !exists:
			plan.add(Action{Kind: ActionWrite, Path: p, Content: want})
			plan.Created = append(plan.Created, p)
		case !hash.Equal(cur, want):
			plan.add(Action{Kind: ActionWrite, Path: p, Content: want})
			plan.Updated = append(plan.Updated, p)
		}
	}

	for _, p := range schema.SortedKeys(s.ManagedFiles) {
		def := s.ManagedFiles[p]
		want, err := store.Render(def.Ref, ctx)
		if err != nil {
			return err
		}
		cur, exists, err := readIfExists(probe, abs(plan.Root, p))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		switch {
		case !exists:
			plan.add(Action{Kind: ActionWrite, Path: p, Content: want})
			plan.Created = append(plan.Created, p)
		case upgrade && !hash.Equal(cur, want):
			// Content no longer matches what devkit generates: the file
			// was hand-edited. Never overwrite it silently.
			plan.Skipped = append(plan.Skipped, p)
		}
	}

	for _, p := range schema.SortedKeys(s.JSONMerges) {
		def := s.JSONMerges[p]
		cur, exists, err := readIfExists(probe, abs(plan.Root, p))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !exists && !def.CreateIfMissing {
			continue
		}
		merged, err := jsonmerge.Merge(cur, def)
		if err != nil {
			return fmt.Errorf("failed to compute merge for %s: %w", p, err)
		}
		defCopy := def
		switch {
		case !exists:
			plan.add(Action{Kind: ActionJSONMerge, Path: p, Merge: &defCopy})
			plan.Created = append(plan.Created, p)
		case !bytes.Equal(cur, merged):
			plan.add(Action{Kind: ActionJSONMerge, Path: p, Merge: &defCopy})
			plan.Updated = append(plan.Updated, p)
		}
	}

	for _, p := range schema.SortedKeys(s.TextPatches) {
		def := s.TextPatches[p]
		cur, exists, err := readIfExists(probe, abs(plan.Root, p))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !exists && !def.CreateIfMissing {
			continue
		}
		_, changed := textpatch.Apply(cur, def)
		defCopy := def
		switch {
		case !exists:
			plan.add(Action{Kind: ActionPatchApply, Path: p, Patch: &defCopy})
			plan.Created = append(plan.Created, p)
		case changed:
			plan.add(Action{Kind: ActionPatchApply, Path: p, Patch: &defCopy})
			plan.Updated = append(plan.Updated, p)
		}
	}

	sel := packages.Select(s, ctx)
	plan.PackagesToInstall = sel.ToInstall
	return nil
}

// computeUninstall handles uninstall mode, and uninstall-full when full is
// true. Reversals come first so merge and patch targets are restored
// before anything is deleted; owned directories go last, deepest first.
func computeUninstall(plan *Plan, s *schema.Schema, ctx *project.Context, probe fsops.Probe, full bool) error {
	for _, p := range schema.SortedKeys(s.TextPatches) {
		def := s.TextPatches[p]
		cur, exists, err := readIfExists(probe, abs(plan.Root, p))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !exists {
			continue
		}
		rest, removed := textpatch.Remove(cur, def)
		if !removed {
			continue
		}
		defCopy := def
		plan.add(Action{Kind: ActionPatchRemove, Path: p, Patch: &defCopy})
		if textpatch.IsBlank(rest) {
			// The file held nothing but our block: it was created by a
			// previous install and is deleted, not left empty.
			plan.Removed = append(plan.Removed, p)
		} else {
			plan.Updated = append(plan.Updated, p)
		}
	}

	for _, p := range schema.SortedKeys(s.JSONMerges) {
		def := s.JSONMerges[p]
		cur, exists, err := readIfExists(probe, abs(plan.Root, p))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !exists {
			continue
		}
		rest, err := jsonmerge.Unmerge(cur, def, full)
		if err != nil {
			return fmt.Errorf("failed to compute unmerge for %s: %w", p, err)
		}
		if bytes.Equal(cur, rest) {
			continue
		}
		defCopy := def
		plan.add(Action{Kind: ActionJSONUnmerge, Path: p, Merge: &defCopy, Full: full})
		// A document left empty by the unmerge was created by install;
		// it is deleted, not kept as a bare object.
		if jsonmerge.IsEmptyDoc(rest) {
			plan.Removed = append(plan.Removed, p)
		} else {
			plan.Updated = append(plan.Updated, p)
		}
	}

	// Owned files are removed regardless of current conditions: a fact
	// that has flipped off since install must not strand its files.
	for _, p := range schema.SortedKeys(s.OwnedFiles) {
		exists, err := probe.Exists(abs(plan.Root, p))
		if err != nil {
			return fmt.Errorf("failed to probe %s: %w", p, err)
		}
		if exists {
			plan.add(Action{Kind: ActionRemove, Path: p})
			plan.Removed = append(plan.Removed, p)
		}
	}

	if full {
		for _, p := range schema.SortedKeys(s.ManagedFiles) {
			exists, err := probe.Exists(abs(plan.Root, p))
			if err != nil {
				return fmt.Errorf("failed to probe %s: %w", p, err)
			}
			if exists {
				plan.add(Action{Kind: ActionRemove, Path: p})
				plan.Removed = append(plan.Removed, p)
			}
		}
	}

	// Owned directories, children before parents. Removal is
	// remove-if-empty at execution time: a directory still holding
	// preserved or user content is silently kept. Shared and preserved
	// directories are never candidates.
	for _, dir := range s.OwnedDirsDeepestFirst() {
		exists, err := probe.Exists(abs(plan.Root, dir))
		if err != nil {
			return fmt.Errorf("failed to probe directory %s: %w", dir, err)
		}
		if exists {
			plan.add(Action{Kind: ActionRemoveDir, Path: dir})
		}
	}

	if full {
		sel := packages.Select(s, ctx)
		plan.PackagesToRemove = sel.ToRemove
	}
	return nil
}

// readIfExists reads a file through the probe, mapping absence to a nil
// slice rather than an error.
func readIfExists(probe fsops.Probe, path string) ([]byte, bool, error) {
	exists, err := probe.Exists(path)
	if err != nil || !exists {
		return nil, false, err
	}
	data, err := probe.ReadFile(path)
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

func abs(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
