// Package packages selects which third-party tool packages to install or
// remove, using the same predicate logic as conditional owned files.
package packages

import (
	"sort"

	"github.com/danieljhkim/devkit/internal/project"
	"github.com/danieljhkim/devkit/internal/schema"
)

// Selection is the outcome of package selection for one invocation.
type Selection struct {
	// ToInstall are candidate packages the project does not declare yet.
	ToInstall []string

	// ToRemove are candidate packages the project already declares. Only
	// packages devkit would have installed are ever proposed for removal,
	// never arbitrary user-installed packages. Consulted on full
	// uninstall only.
	ToRemove []string
}

// Select computes the package selection from the catalog and the project
// context. Candidates are the base set plus every conditional set whose
// fact holds.
func Select(s *schema.Schema, ctx *project.Context) Selection {
	candidates := make(map[string]bool)
	for _, name := range s.Packages.Base {
		candidates[name] = true
	}
	for cond, names := range s.Packages.Conditional {
		if !ctx.Fact(string(cond)) {
			continue
		}
		for _, name := range names {
			candidates[name] = true
		}
	}

	declared := ctx.DeclaredDependencies()
	var sel Selection
	for name := range candidates {
		if declared[name] {
			sel.ToRemove = append(sel.ToRemove, name)
		} else {
			sel.ToInstall = append(sel.ToInstall, name)
		}
	}
	sort.Strings(sel.ToInstall)
	sort.Strings(sel.ToRemove)
	return sel
}
