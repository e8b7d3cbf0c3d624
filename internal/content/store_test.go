package content

import (
	"strings"
	"testing"

	"github.com/danieljhkim/devkit/internal/project"
)

func testContext(facts map[string]bool) *project.Context {
	return &project.Context{
		ProjectName: "demo",
		Facts:       facts,
		Languages:   project.Languages{JavaScript: true},
	}
}

func TestRender_StaticContent(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	data, err := store.Render("lint.md", testContext(nil))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(data), "# Linting") {
		t.Errorf("unexpected static content: %q", data)
	}
}

func TestRender_TemplatedConfig(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	data, err := store.Render("config.json.tmpl", testContext(map[string]bool{
		project.FactTypeScript:   true,
		project.FactStrictTyping: true,
	}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"project": "demo"`) {
		t.Errorf("project name not rendered: %s", out)
	}
	if !strings.Contains(out, `"strict": true`) {
		t.Errorf("strict fact not rendered: %s", out)
	}
}

func TestRender_ESLintConfigReflectsFacts(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	plain, err := store.Render("eslint.config.cjs.tmpl", testContext(nil))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(string(plain), "typescript-eslint") {
		t.Error("typescript section rendered without the fact")
	}

	ts, err := store.Render("eslint.config.cjs.tmpl", testContext(map[string]bool{project.FactTypeScript: true}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(ts), "@typescript-eslint/parser") {
		t.Error("typescript section missing with the fact set")
	}
}

func TestRender_UnknownRef(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, err := store.Render("missing.md", testContext(nil)); err == nil {
		t.Error("expected error for unknown reference")
	}
}

func TestHas(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if !store.Has("lint.md") || !store.Has("config.json.tmpl") {
		t.Error("expected bundled refs to resolve")
	}
	if store.Has("missing.md") || store.Has("missing.tmpl") {
		t.Error("expected unknown refs to be absent")
	}
}
