// Package pkgmgr invokes the host project's package manager.
//
// Devkit only computes package name lists; actually installing or removing
// them is delegated here, shelling out to whichever manager the project
// context detected from lock files. Failures are non-fatal by design: the
// caller reports them as warnings alongside the manual command the user
// can run themselves.
package pkgmgr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Manager installs and removes development packages in a project.
type Manager interface {
	// Install installs the packages as development dependencies.
	Install(ctx context.Context, dir, manager string, pkgs []string) error

	// Remove removes the packages.
	Remove(ctx context.Context, dir, manager string, pkgs []string) error
}

// InstallCommand returns the argv a user would run by hand to install the
// packages. Used in warning messages when automatic installation fails.
func InstallCommand(manager string, pkgs []string) string {
	return strings.Join(installArgs(manager, pkgs), " ")
}

// RemoveCommand returns the argv a user would run by hand to remove the
// packages.
func RemoveCommand(manager string, pkgs []string) string {
	return strings.Join(removeArgs(manager, pkgs), " ")
}

func installArgs(manager string, pkgs []string) []string {
	var args []string
	switch manager {
	case "pnpm":
		args = []string{"pnpm", "add", "-D"}
	case "yarn":
		args = []string{"yarn", "add", "--dev"}
	case "bun":
		args = []string{"bun", "add", "--dev"}
	default:
		args = []string{"npm", "install", "--save-dev"}
	}
	return append(args, pkgs...)
}

func removeArgs(manager string, pkgs []string) []string {
	var args []string
	switch manager {
	case "pnpm":
		args = []string{"pnpm", "remove"}
	case "yarn":
		args = []string{"yarn", "remove"}
	case "bun":
		args = []string{"bun", "remove"}
	default:
		args = []string{"npm", "uninstall"}
	}
	return append(args, pkgs...)
}

// ExecManager is the production Manager using exec.Command.
type ExecManager struct{}

// NewExecManager creates a new ExecManager.
func NewExecManager() *ExecManager {
	return &ExecManager{}
}

// Install installs the packages as development dependencies.
func (m *ExecManager) Install(ctx context.Context, dir, manager string, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	return m.run(ctx, dir, installArgs(manager, pkgs))
}

// Remove removes the packages.
func (m *ExecManager) Remove(ctx context.Context, dir, manager string, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	return m.run(ctx, dir, removeArgs(manager, pkgs))
}

func (m *ExecManager) run(ctx context.Context, dir string, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w\nstderr: %s", argv[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
