// Package project builds an immutable snapshot of facts about the host
// project that devkit is being installed into.
//
// The Context is assembled once per CLI invocation by reading the package
// manifest, lock files, tsconfig, and language markers. Everything
// downstream (schema conditions, package selection, content rendering)
// consumes the snapshot and never re-reads the project itself.
package project

// Fact keys for project-type predicates. Schema conditions and conditional
// package sets reference these keys.
const (
	// FactTypeScript indicates the project declares typescript or ships a
	// tsconfig.json.
	FactTypeScript = "typescript"

	// FactStrictTyping indicates tsconfig.json enables strict mode.
	FactStrictTyping = "strict-typing"

	// FactReact indicates the project depends on react.
	FactReact = "react"

	// FactNoLintConfig indicates no ESLint configuration exists yet.
	FactNoLintConfig = "no-lint-config"

	// FactPython indicates Python sources or manifests were detected.
	FactPython = "python"
)

// Languages is the set of source languages detected in the project.
type Languages struct {
	JavaScript bool `json:"javascript"`
	Python     bool `json:"python"`
	Golang     bool `json:"golang"`
}

// Context is an immutable snapshot of host-project facts for one
// invocation. The reconciler treats it as opaque input.
type Context struct {
	// WorkingDir is the absolute path of the project root.
	WorkingDir string

	// ProjectName is the name declared in the package manifest, or the
	// directory basename if no manifest exists.
	ProjectName string

	// Facts holds boolean project-type predicates keyed by the Fact*
	// constants.
	Facts map[string]bool

	// ProductionDeps maps declared production dependency names to their
	// version constraints.
	ProductionDeps map[string]string

	// DevelopmentDeps maps declared development dependency names to their
	// version constraints.
	DevelopmentDeps map[string]string

	// IsGitRepo indicates whether the project root is inside a git
	// repository.
	IsGitRepo bool

	// Languages is the detected source-language set.
	Languages Languages

	// PackageManager is the detected package manager ("npm", "pnpm",
	// "yarn", or "bun"), inferred from lock files.
	PackageManager string
}

// Fact returns the value of a project-type predicate. Unknown keys are
// false.
func (c *Context) Fact(key string) bool {
	return c.Facts[key]
}

// HasDependency reports whether the project declares the named package as
// either a production or development dependency.
func (c *Context) HasDependency(name string) bool {
	if _, ok := c.ProductionDeps[name]; ok {
		return true
	}
	_, ok := c.DevelopmentDeps[name]
	return ok
}

// DeclaredDependencies returns the union of production and development
// dependency names.
func (c *Context) DeclaredDependencies() map[string]bool {
	declared := make(map[string]bool, len(c.ProductionDeps)+len(c.DevelopmentDeps))
	for name := range c.ProductionDeps {
		declared[name] = true
	}
	for name := range c.DevelopmentDeps {
		declared[name] = true
	}
	return declared
}
