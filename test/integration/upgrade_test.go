package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/devkit/internal/planner"
)

func TestUpgrade_AfterInstallIsNoop(t *testing.T) {
	eng, _ := setupEngine(t)
	dir := newProject(t, map[string]string{
		"package.json": `{"name":"web-app"}`,
	})

	run(t, eng, dir, planner.ModeInstall)
	result := run(t, eng, dir, planner.ModeUpgrade)
	if !result.Plan.IsNoop() {
		t.Errorf("upgrade after install planned %d actions", len(result.Plan.Actions))
	}
}

func TestUpgrade_RemovesDeprecatedPaths(t *testing.T) {
	eng, _ := setupEngine(t)
	dir := newProject(t, map[string]string{
		"package.json": `{"name":"web-app"}`,
	})
	run(t, eng, dir, planner.ModeInstall)

	// Simulate leftovers from the pre-1.0 layout.
	for _, p := range []string{".devkit/rules.json", ".agents/devkit-setup.md"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create parent: %v", err)
		}
		if err := os.WriteFile(path, []byte("legacy\n"), 0644); err != nil {
			t.Fatalf("failed to seed %s: %v", p, err)
		}
	}

	result := run(t, eng, dir, planner.ModeUpgrade)
	for _, p := range []string{".devkit/rules.json", ".agents/devkit-setup.md"} {
		if pathExists(t, dir, p) {
			t.Errorf("deprecated path %s survived upgrade", p)
		}
		var listed bool
		for _, r := range result.Plan.Removed {
			if r == p {
				listed = true
			}
		}
		if !listed {
			t.Errorf("deprecated path %s missing from removal summary", p)
		}
	}
}

func TestUpgrade_RestoresDriftedOwnedFile(t *testing.T) {
	eng, _ := setupEngine(t)
	dir := newProject(t, map[string]string{
		"package.json": `{"name":"web-app"}`,
	})
	run(t, eng, dir, planner.ModeInstall)

	lintPath := filepath.Join(dir, ".devkit", "rules", "lint.md")
	if err := os.WriteFile(lintPath, []byte("local edits\n"), 0644); err != nil {
		t.Fatalf("failed to edit owned file: %v", err)
	}

	result := run(t, eng, dir, planner.ModeUpgrade)
	var updated bool
	for _, u := range result.Plan.Updated {
		if u == ".devkit/rules/lint.md" {
			updated = true
		}
	}
	if !updated {
		t.Error("drifted owned file not refreshed")
	}
	if got := readFile(t, dir, ".devkit/rules/lint.md"); got == "local edits\n" {
		t.Error("owned file content not restored")
	}
}

func TestUpgrade_SkipsHandEditedManagedFile(t *testing.T) {
	eng, _ := setupEngine(t)
	dir := newProject(t, map[string]string{
		"package.json": `{"name":"web-app"}`,
	})
	run(t, eng, dir, planner.ModeInstall)

	edited := "module.exports = [/* project overrides */];\n"
	if err := os.WriteFile(filepath.Join(dir, "eslint.config.cjs"), []byte(edited), 0644); err != nil {
		t.Fatalf("failed to edit managed file: %v", err)
	}

	result := run(t, eng, dir, planner.ModeUpgrade)
	var skipped bool
	for _, s := range result.Plan.Skipped {
		if s == "eslint.config.cjs" {
			skipped = true
		}
	}
	if !skipped {
		t.Errorf("hand-edited file not in skip summary: %v", result.Plan.Skipped)
	}
	if got := readFile(t, dir, "eslint.config.cjs"); got != edited {
		t.Errorf("hand edits overwritten: %q", got)
	}
}

func TestUpgrade_AddsRulesWhenFactsChange(t *testing.T) {
	eng, _ := setupEngine(t)
	dir := newProject(t, map[string]string{
		"package.json": `{"name":"web-app"}`,
	})
	run(t, eng, dir, planner.ModeInstall)
	if pathExists(t, dir, ".devkit/rules/python.md") {
		t.Fatal("python rules present without python")
	}

	// The project grows a Python side.
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[project]\nname = \"web-app\"\n"), 0644); err != nil {
		t.Fatalf("failed to seed pyproject: %v", err)
	}

	run(t, eng, dir, planner.ModeUpgrade)
	if !pathExists(t, dir, ".devkit/rules/python.md") {
		t.Error("python rules not added after the project changed")
	}
	if !strings.Contains(readFile(t, dir, ".devkit/config.json"), `"python": true`) {
		t.Error("config snapshot not refreshed for the new language")
	}
}
