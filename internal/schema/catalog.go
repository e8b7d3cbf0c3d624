package schema

import (
	"github.com/danieljhkim/devkit/internal/content"
	"github.com/danieljhkim/devkit/internal/jsonmerge"
	"github.com/danieljhkim/devkit/internal/project"
	"github.com/danieljhkim/devkit/internal/textpatch"
)

// AgentsBlock is the literal block prepended to AGENTS.md. The markers are
// fixed so removal can locate the exact bytes; nothing inside them is
// substituted.
const AgentsBlock = `<!-- devkit:begin -->
# Working in this repository

Project rules live under .devkit/rules/. Read them before making changes:

- .devkit/rules/lint.md - linting expectations
- .devkit/rules/format.md - formatting expectations

Run the lint and format scripts before committing. Completed task records
belong in .devkit/archive/.
<!-- devkit:end -->
`

// GitignoreBlock is the literal block prepended to .gitignore.
const GitignoreBlock = `# devkit:begin
.devkit/cache/
# devkit:end
`

// Default returns the devkit schema, validated against the content store.
func Default(store *content.Store) (*Schema, error) {
	s := &Schema{
		OwnedDirs:     []string{".devkit", ".devkit/rules"},
		SharedDirs:    []string{".agents", ".vscode"},
		PreservedDirs: []string{".devkit/archive"},

		// Paths from the pre-1.0 layout, cleaned up on upgrade.
		DeprecatedPaths: []string{
			".devkit/rules.json",
			".agents/devkit-setup.md",
		},

		OwnedFiles: map[string]OwnedFileDef{
			".devkit/config.json":         {Ref: "config.json.tmpl"},
			".devkit/rules/lint.md":       {Ref: "lint.md"},
			".devkit/rules/format.md":     {Ref: "format.md"},
			".devkit/rules/typescript.md": {Ref: "typescript.md", Condition: project.FactTypeScript},
			".devkit/rules/react.md":      {Ref: "react.md", Condition: project.FactReact},
			".devkit/rules/python.md":     {Ref: "python.md", Condition: project.FactPython},
		},

		ManagedFiles: map[string]ManagedFileDef{
			"eslint.config.cjs": {Ref: "eslint.config.cjs.tmpl"},
			".prettierrc.json":  {Ref: "prettierrc.json"},
		},

		JSONMerges: map[string]jsonmerge.Def{
			"package.json": {
				Entries: []jsonmerge.Entry{
					{KeyPath: "scripts.lint", Value: "eslint .", Policy: jsonmerge.SetIfAbsent, Retain: true},
					{KeyPath: "scripts.format", Value: "prettier --write .", Policy: jsonmerge.SetIfAbsent, Retain: true},
				},
				PruneEmpty: []string{"scripts"},
			},
			".vscode/settings.json": {
				CreateIfMissing: true,
				Entries: []jsonmerge.Entry{
					{KeyPath: `editor\.formatOnSave`, Value: true, Policy: jsonmerge.Overwrite},
					{KeyPath: `editor\.defaultFormatter`, Value: "esbenp.prettier-vscode", Policy: jsonmerge.SetIfAbsent},
				},
			},
			".vscode/extensions.json": {
				CreateIfMissing: true,
				Entries: []jsonmerge.Entry{
					{KeyPath: "recommendations", Value: "dbaeumer.vscode-eslint", Policy: jsonmerge.AppendUnique},
					{KeyPath: "recommendations", Value: "esbenp.prettier-vscode", Policy: jsonmerge.AppendUnique},
				},
				PruneEmpty: []string{"recommendations"},
			},
		},

		TextPatches: map[string]textpatch.Def{
			"AGENTS.md":  {Block: AgentsBlock, CreateIfMissing: true},
			".gitignore": {Block: GitignoreBlock, CreateIfMissing: true},
		},

		Packages: PackageCatalog{
			Base: []string{"prettier"},
			Conditional: map[Condition][]string{
				project.FactTypeScript: {
					"typescript",
					"@typescript-eslint/parser",
					"@typescript-eslint/eslint-plugin",
				},
				project.FactNoLintConfig: {"eslint"},
				project.FactReact: {
					"eslint-plugin-react",
					"eslint-plugin-react-hooks",
				},
			},
		},
	}

	if err := s.Validate(store); err != nil {
		return nil, err
	}
	return s, nil
}
