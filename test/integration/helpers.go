package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/devkit/internal/content"
	"github.com/danieljhkim/devkit/internal/engine"
	"github.com/danieljhkim/devkit/internal/fsops"
	"github.com/danieljhkim/devkit/internal/planner"
	"github.com/danieljhkim/devkit/internal/schema"
)

// fakePkgManager records package-manager calls so the suite never shells
// out to npm.
type fakePkgManager struct {
	installed [][]string
	removed   [][]string
}

func (m *fakePkgManager) Install(ctx context.Context, dir, manager string, pkgs []string) error {
	m.installed = append(m.installed, pkgs)
	return nil
}

func (m *fakePkgManager) Remove(ctx context.Context, dir, manager string, pkgs []string) error {
	m.removed = append(m.removed, pkgs)
	return nil
}

// setupEngine builds an engine against the real filesystem with a recording
// package manager.
func setupEngine(t *testing.T) (*engine.Engine, *fakePkgManager) {
	t.Helper()
	store, err := content.NewStore()
	if err != nil {
		t.Fatalf("failed to build content store: %v", err)
	}
	s, err := schema.Default(store)
	if err != nil {
		t.Fatalf("failed to build schema: %v", err)
	}
	pkgs := &fakePkgManager{}
	return engine.New(s, store, fsops.NewRealFS(), pkgs), pkgs
}

// newProject creates a temp project directory seeded with the given files.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create parent of %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("failed to seed %s: %v", name, err)
		}
	}
	return dir
}

// run executes one mode against the project and fails the test on error.
func run(t *testing.T, eng *engine.Engine, dir string, mode planner.Mode) *engine.Result {
	t.Helper()
	result, err := eng.Run(context.Background(), &engine.Request{CWD: dir, Mode: mode})
	if err != nil {
		t.Fatalf("%s failed: %v", mode, err)
	}
	return result
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

func pathExists(t *testing.T, dir, rel string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, rel))
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatalf("failed to stat %s: %v", rel, err)
	return false
}
