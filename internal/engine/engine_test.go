package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/devkit/internal/content"
	"github.com/danieljhkim/devkit/internal/fsops"
	"github.com/danieljhkim/devkit/internal/planner"
	"github.com/danieljhkim/devkit/internal/schema"
)

// fakeManager records package-manager invocations instead of shelling out.
type fakeManager struct {
	installs  [][]string
	removes   [][]string
	installFn func() error
}

func (m *fakeManager) Install(ctx context.Context, dir, manager string, pkgs []string) error {
	m.installs = append(m.installs, pkgs)
	if m.installFn != nil {
		return m.installFn()
	}
	return nil
}

func (m *fakeManager) Remove(ctx context.Context, dir, manager string, pkgs []string) error {
	m.removes = append(m.removes, pkgs)
	return nil
}

func newTestEngine(t *testing.T, pkgs *fakeManager) *Engine {
	t.Helper()
	store, err := content.NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	s, err := schema.Default(store)
	if err != nil {
		t.Fatalf("Default schema failed: %v", err)
	}
	return New(s, store, fsops.NewRealFS(), pkgs)
}

func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"demo"}`), 0644); err != nil {
		t.Fatalf("failed to seed manifest: %v", err)
	}
	return dir
}

func TestRun_DryRunHasNoSideEffects(t *testing.T) {
	pkgs := &fakeManager{}
	eng := newTestEngine(t, pkgs)
	dir := newTestProject(t)

	result, err := eng.Run(context.Background(), &Request{CWD: dir, Mode: planner.ModeInstall, DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Plan.IsNoop() {
		t.Error("expected a non-empty plan for a fresh project")
	}
	if result.Plan.Applied {
		t.Error("dry-run plan marked applied")
	}
	if len(pkgs.installs) != 0 {
		t.Error("dry run invoked the package manager")
	}
	if _, err := os.Stat(filepath.Join(dir, ".devkit")); !os.IsNotExist(err) {
		t.Error("dry run created files on disk")
	}
}

func TestRun_InstallAppliesAndInstallsPackages(t *testing.T) {
	pkgs := &fakeManager{}
	eng := newTestEngine(t, pkgs)
	dir := newTestProject(t)

	result, err := eng.Run(context.Background(), &Request{CWD: dir, Mode: planner.ModeInstall})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Plan.Applied {
		t.Error("plan not applied")
	}
	if !result.PackagesChanged {
		t.Error("PackagesChanged not set after successful install")
	}
	if len(pkgs.installs) != 1 {
		t.Fatalf("expected one package-manager call, got %d", len(pkgs.installs))
	}
	for _, p := range []string{".devkit/config.json", ".devkit/rules/lint.md", "AGENTS.md"} {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Errorf("%s missing after install: %v", p, err)
		}
	}
	if !contains(result.Warnings, "not a git repository: changes cannot be reverted with git") {
		t.Errorf("missing git warning: %v", result.Warnings)
	}
}

func TestRun_SkipPackages(t *testing.T) {
	pkgs := &fakeManager{}
	eng := newTestEngine(t, pkgs)
	dir := newTestProject(t)

	if _, err := eng.Run(context.Background(), &Request{CWD: dir, Mode: planner.ModeInstall, SkipPackages: true}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(pkgs.installs) != 0 {
		t.Error("package manager invoked despite SkipPackages")
	}
}

func TestRun_PackageFailureIsWarningWithManualCommand(t *testing.T) {
	pkgs := &fakeManager{installFn: func() error { return errors.New("registry unreachable") }}
	eng := newTestEngine(t, pkgs)
	dir := newTestProject(t)

	result, err := eng.Run(context.Background(), &Request{CWD: dir, Mode: planner.ModeInstall})
	if err != nil {
		t.Fatalf("Run failed: package errors must be warnings, got %v", err)
	}
	if result.PackagesChanged {
		t.Error("PackagesChanged set despite failure")
	}
	var found bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "npm install --save-dev prettier") {
			found = true
		}
	}
	if !found {
		t.Errorf("warning does not carry the manual command: %v", result.Warnings)
	}
	// File-level changes still landed.
	if _, err := os.Stat(filepath.Join(dir, ".devkit", "config.json")); err != nil {
		t.Errorf("config missing after install: %v", err)
	}
}

func TestRun_FullUninstallRemovesPackages(t *testing.T) {
	pkgs := &fakeManager{}
	eng := newTestEngine(t, pkgs)
	dir := newTestProject(t)
	// Declare the base package so uninstall proposes its removal.
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"demo","devDependencies":{"prettier":"^3.0.0"}}`), 0644); err != nil {
		t.Fatalf("failed to seed manifest: %v", err)
	}

	if _, err := eng.Run(context.Background(), &Request{CWD: dir, Mode: planner.ModeInstall}); err != nil {
		t.Fatalf("install failed: %v", err)
	}
	result, err := eng.Run(context.Background(), &Request{CWD: dir, Mode: planner.ModeUninstallFull})
	if err != nil {
		t.Fatalf("uninstall failed: %v", err)
	}
	if len(pkgs.removes) != 1 || !contains(pkgs.removes[0], "prettier") {
		t.Errorf("expected prettier removal, got %v", pkgs.removes)
	}
	if !result.PackagesChanged {
		t.Error("PackagesChanged not set after removal")
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
