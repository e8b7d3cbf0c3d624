package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// memFS is an in-memory FS implementation for planner tests, so plans can
// be computed and executed without touching a real filesystem.
type memFS struct {
	files map[string][]byte
	dirs  map[string]bool

	// failWrites maps paths whose AtomicWrite should fail, for testing
	// execution aborts.
	failWrites map[string]bool
}

func newMemFS() *memFS {
	return &memFS{
		files:      make(map[string][]byte),
		dirs:       make(map[string]bool),
		failWrites: make(map[string]bool),
	}
}

// seed places a file and its parent directories.
func (fs *memFS) seed(path string, content []byte) {
	fs.files[path] = append([]byte(nil), content...)
	fs.addParents(path)
}

func (fs *memFS) addParents(path string) {
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		fs.dirs[dir] = true
	}
}

func (fs *memFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *memFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

func (fs *memFS) IsDirEmpty(path string) (bool, error) {
	if !fs.dirs[path] {
		return false, os.ErrNotExist
	}
	prefix := path + "/"
	for p := range fs.files {
		if strings.HasPrefix(p, prefix) {
			return false, nil
		}
	}
	for p := range fs.dirs {
		if strings.HasPrefix(p, prefix) {
			return false, nil
		}
	}
	return true, nil
}

func (fs *memFS) MkdirAll(path string, perm os.FileMode) error {
	fs.dirs[path] = true
	fs.addParents(path)
	return nil
}

func (fs *memFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if fs.failWrites[path] {
		return fmt.Errorf("write to %s denied", path)
	}
	fs.seed(path, data)
	return nil
}

func (fs *memFS) Remove(path string) error {
	if fs.dirs[path] {
		if empty, _ := fs.IsDirEmpty(path); !empty {
			return fmt.Errorf("directory not empty: %s", path)
		}
		delete(fs.dirs, path)
		return nil
	}
	if _, ok := fs.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(fs.files, path)
	return nil
}

func (fs *memFS) RemoveAll(path string) error {
	delete(fs.files, path)
	delete(fs.dirs, path)
	prefix := path + "/"
	for p := range fs.files {
		if strings.HasPrefix(p, prefix) {
			delete(fs.files, p)
		}
	}
	for p := range fs.dirs {
		if strings.HasPrefix(p, prefix) {
			delete(fs.dirs, p)
		}
	}
	return nil
}

func (fs *memFS) ValidateRelPath(relPath string) error {
	if relPath == "" || relPath == "." || filepath.IsAbs(relPath) || strings.HasPrefix(relPath, "..") {
		return fmt.Errorf("invalid path %q", relPath)
	}
	return nil
}
