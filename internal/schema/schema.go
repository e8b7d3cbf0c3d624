// Package schema is the declarative source of truth for what a fully
// configured project contains.
//
// A Schema classifies every directory and file devkit touches: owned
// directories removed wholesale on uninstall, shared directories that are
// only ever created, preserved directories whose contents are user data,
// deprecated paths cleaned up on upgrade, owned and managed files, JSON
// merge and text patch definitions, and the package catalog.
//
// The schema is constructed once at process start, validated against the
// content store, and passed by value into every function that needs it.
// There is no global lookup.
package schema

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/danieljhkim/devkit/internal/content"
	"github.com/danieljhkim/devkit/internal/jsonmerge"
	"github.com/danieljhkim/devkit/internal/textpatch"
)

// Condition is a predicate over the project context: the fact key that
// must be true for a conditional entry to apply. The empty condition
// always applies.
type Condition string

// OwnedFileDef describes a file devkit exclusively manages.
type OwnedFileDef struct {
	// Ref is the content store reference for the file body.
	Ref content.Ref

	// Condition gates installation on a project fact. Empty means always.
	Condition Condition
}

// ManagedFileDef describes a file that exists independently of devkit
// (for example a lint-tool config) whose content devkit generates. Install
// never overwrites an existing managed file; upgrade rewrites it only
// while its content still matches the generated output.
type ManagedFileDef struct {
	// Ref is the content store reference for the generated body.
	Ref content.Ref
}

// PackageCatalog lists the third-party packages devkit proposes.
type PackageCatalog struct {
	// Base packages are always proposed.
	Base []string

	// Conditional maps a fact key to the packages proposed when the fact
	// holds.
	Conditional map[Condition][]string
}

// Schema is the full declarative description of a configured project.
type Schema struct {
	// OwnedDirs are directories devkit exclusively manages; removed
	// (when empty) on uninstall.
	OwnedDirs []string

	// SharedDirs are created by devkit but populated cooperatively with
	// other tooling; never deleted.
	SharedDirs []string

	// PreservedDirs hold user data; always created, never deleted, never
	// diffed.
	PreservedDirs []string

	// DeprecatedPaths are paths owned by earlier schema versions, removed
	// during upgrade when present.
	DeprecatedPaths []string

	// OwnedFiles maps relative paths to their definitions.
	OwnedFiles map[string]OwnedFileDef

	// ManagedFiles maps relative paths to their definitions.
	ManagedFiles map[string]ManagedFileDef

	// JSONMerges maps relative paths to merge definitions.
	JSONMerges map[string]jsonmerge.Def

	// TextPatches maps relative paths to patch definitions.
	TextPatches map[string]textpatch.Def

	// Packages is the package catalog.
	Packages PackageCatalog
}

// Validate checks schema integrity against the content store. Integrity
// errors are fatal at construction time and never reach plan computation.
func (s *Schema) Validate(store *content.Store) error {
	for p, def := range s.OwnedFiles {
		if !store.Has(def.Ref) {
			return fmt.Errorf("owned file %s references missing content %q", p, def.Ref)
		}
		if err := s.checkRooted(p); err != nil {
			return fmt.Errorf("owned file: %w", err)
		}
	}
	for p, def := range s.ManagedFiles {
		if !store.Has(def.Ref) {
			return fmt.Errorf("managed file %s references missing content %q", p, def.Ref)
		}
		if err := s.checkRooted(p); err != nil {
			return fmt.Errorf("managed file: %w", err)
		}
	}
	for p, def := range s.JSONMerges {
		if len(def.Entries) == 0 {
			return fmt.Errorf("json merge %s has no entries", p)
		}
		if err := s.checkRooted(p); err != nil {
			return fmt.Errorf("json merge: %w", err)
		}
	}
	for p, def := range s.TextPatches {
		if def.Block == "" || !strings.HasSuffix(def.Block, "\n") {
			return fmt.Errorf("text patch %s block must be non-empty and newline-terminated", p)
		}
		if err := s.checkRooted(p); err != nil {
			return fmt.Errorf("text patch: %w", err)
		}
	}

	// A path is never simultaneously current and deprecated.
	for _, dep := range s.DeprecatedPaths {
		if _, ok := s.OwnedFiles[dep]; ok {
			return fmt.Errorf("deprecated path %s is also a current owned file", dep)
		}
	}
	return nil
}

// checkRooted verifies that a schema path resolves under an owned or
// shared directory, or sits directly in the project root. Orphaned schema
// entries are construction-time errors.
func (s *Schema) checkRooted(p string) error {
	if p == "" || path.IsAbs(p) || strings.HasPrefix(p, "..") {
		return fmt.Errorf("invalid schema path %q", p)
	}
	dir := path.Dir(p)
	if dir == "." {
		return nil
	}
	for _, root := range s.OwnedDirs {
		if dir == root || strings.HasPrefix(dir, root+"/") {
			return nil
		}
	}
	for _, root := range s.SharedDirs {
		if dir == root || strings.HasPrefix(dir, root+"/") {
			return nil
		}
	}
	return fmt.Errorf("path %q is not rooted under an owned or shared directory", p)
}

// AllDirs returns the union of owned, shared, and preserved directories,
// sorted shallowest first so parents are created before children.
func (s *Schema) AllDirs() []string {
	dirs := make([]string, 0, len(s.OwnedDirs)+len(s.SharedDirs)+len(s.PreservedDirs))
	dirs = append(dirs, s.OwnedDirs...)
	dirs = append(dirs, s.SharedDirs...)
	dirs = append(dirs, s.PreservedDirs...)
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], "/"), strings.Count(dirs[j], "/")
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}

// OwnedDirsDeepestFirst returns the owned directories ordered so children
// come before their parents, the order removal must happen in.
func (s *Schema) OwnedDirsDeepestFirst() []string {
	dirs := append([]string(nil), s.OwnedDirs...)
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], "/"), strings.Count(dirs[j], "/")
		if di != dj {
			return di > dj
		}
		return dirs[i] > dirs[j]
	})
	return dirs
}

// SortedKeys returns the keys of a definition map in deterministic order.
// Plans iterate schema maps through this so action order is stable.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
