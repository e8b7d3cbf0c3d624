package fsops

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_ExistsAndReadFile(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected missing file")
	}

	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	exists, err = fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected existing file")
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(data, []byte("data")) {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.json")

	if err := fs.AtomicWrite(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("unexpected content: %q", data)
	}

	// Overwrite
	if err := fs.AtomicWrite(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("second AtomicWrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("overwrite lost: %q", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only target file, found %d entries", len(entries))
	}
}

func TestRealFS_IsDirEmpty(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	empty, err := fs.IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty failed: %v", err)
	}
	if !empty {
		t.Error("fresh temp dir reported non-empty")
	}

	if err := os.WriteFile(filepath.Join(dir, "x"), nil, 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	empty, err = fs.IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty failed: %v", err)
	}
	if empty {
		t.Error("dir with entry reported empty")
	}
}

func TestValidateRelPath(t *testing.T) {
	fs := NewRealFS()
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid file", "AGENTS.md", false},
		{"valid nested", ".devkit/rules/lint.md", false},
		{"empty", "", true},
		{"current dir", ".", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../outside", true},
		{"nested traversal", "a/../../outside", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateRelPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
