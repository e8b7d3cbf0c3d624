package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// manifest mirrors the package.json fields devkit cares about.
type manifest struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// lockFiles maps lock-file names to the package manager that owns them.
// Order matters: the first match wins.
var lockFiles = []struct {
	file    string
	manager string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"package-lock.json", "npm"},
}

// eslintConfigFiles are the configuration files whose presence means the
// project already has a lint setup.
var eslintConfigFiles = []string{
	"eslint.config.js",
	"eslint.config.mjs",
	"eslint.config.cjs",
	".eslintrc.json",
	".eslintrc.js",
	".eslintrc.cjs",
	".eslintrc.yaml",
	".eslintrc.yml",
}

// Build reads the host project at root and assembles the fact snapshot.
// A missing manifest is not an error: devkit can be installed into a fresh
// directory, in which case only base configuration applies.
func Build(root string) (*Context, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	ctx := &Context{
		WorkingDir:      abs,
		ProjectName:     filepath.Base(abs),
		Facts:           make(map[string]bool),
		ProductionDeps:  map[string]string{},
		DevelopmentDeps: map[string]string{},
		PackageManager:  "npm",
	}

	if err := readManifest(ctx); err != nil {
		return nil, err
	}
	detectPackageManager(ctx)
	detectLanguages(ctx)
	detectTypeScript(ctx)
	detectFacts(ctx)
	ctx.IsGitRepo = pathExists(filepath.Join(abs, ".git"))

	return ctx, nil
}

// readManifest loads package.json if present.
func readManifest(ctx *Context) error {
	data, err := os.ReadFile(filepath.Join(ctx.WorkingDir, "package.json"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read package.json: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse package.json: %w", err)
	}

	if m.Name != "" {
		ctx.ProjectName = m.Name
	}
	if m.Dependencies != nil {
		ctx.ProductionDeps = m.Dependencies
	}
	if m.DevDependencies != nil {
		ctx.DevelopmentDeps = m.DevDependencies
	}
	return nil
}

// detectPackageManager infers the package manager from lock files.
// Defaults to npm when no lock file exists.
func detectPackageManager(ctx *Context) {
	for _, lf := range lockFiles {
		if pathExists(filepath.Join(ctx.WorkingDir, lf.file)) {
			ctx.PackageManager = lf.manager
			return
		}
	}
}

// detectLanguages checks for language markers in the project root.
func detectLanguages(ctx *Context) {
	ctx.Languages.JavaScript = pathExists(filepath.Join(ctx.WorkingDir, "package.json"))
	ctx.Languages.Python = pathExists(filepath.Join(ctx.WorkingDir, "pyproject.toml")) ||
		pathExists(filepath.Join(ctx.WorkingDir, "requirements.txt")) ||
		pathExists(filepath.Join(ctx.WorkingDir, "setup.py"))
	ctx.Languages.Golang = pathExists(filepath.Join(ctx.WorkingDir, "go.mod"))
}

// detectTypeScript reads tsconfig.json, which routinely carries comments
// and trailing commas, so it is parsed as JSONC before inspection.
func detectTypeScript(ctx *Context) {
	data, err := os.ReadFile(filepath.Join(ctx.WorkingDir, "tsconfig.json"))
	if err != nil {
		ctx.Facts[FactTypeScript] = ctx.HasDependency("typescript")
		return
	}

	ctx.Facts[FactTypeScript] = true
	strict := gjson.GetBytes(jsonc.ToJSON(data), "compilerOptions.strict")
	ctx.Facts[FactStrictTyping] = strict.Bool()
}

// detectFacts fills in the remaining project-type predicates.
func detectFacts(ctx *Context) {
	ctx.Facts[FactReact] = ctx.HasDependency("react")
	ctx.Facts[FactPython] = ctx.Languages.Python

	hasLint := ctx.HasDependency("eslint")
	if !hasLint {
		for _, name := range eslintConfigFiles {
			if pathExists(filepath.Join(ctx.WorkingDir, name)) {
				hasLint = true
				break
			}
		}
	}
	ctx.Facts[FactNoLintConfig] = !hasLint
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
