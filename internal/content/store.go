// Package content is the bundled template store.
//
// The store maps logical content references to byte content. Static
// references resolve to embedded files verbatim; references ending in
// ".tmpl" are rendered through text/template against the project Context,
// so generated files (devkit config, ESLint config) can reflect detected
// project facts.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/danieljhkim/devkit/internal/project"
)

//go:embed templates
var templatesFS embed.FS

// Ref identifies a piece of bundled content by its file name under the
// templates directory.
type Ref string

// Store resolves content references to bytes.
type Store struct {
	tmpl *template.Template
}

// NewStore parses the bundled templates and returns a ready Store.
func NewStore() (*Store, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled templates: %w", err)
	}
	return &Store{tmpl: tmpl}, nil
}

// Has reports whether the store can resolve the given reference. Schema
// validation uses this to reject catalogs that point at missing content.
func (s *Store) Has(ref Ref) bool {
	name := string(ref)
	if strings.HasSuffix(name, ".tmpl") {
		return s.tmpl.Lookup(name) != nil
	}
	_, err := templatesFS.ReadFile(path.Join("templates", name))
	return err == nil
}

// Render resolves a reference to its byte content. Templated references
// are executed against the project context; static references are
// returned verbatim.
func (s *Store) Render(ref Ref, ctx *project.Context) ([]byte, error) {
	name := string(ref)
	if strings.HasSuffix(name, ".tmpl") {
		t := s.tmpl.Lookup(name)
		if t == nil {
			return nil, fmt.Errorf("unknown content reference %q", name)
		}
		var buf bytes.Buffer
		if err := t.Execute(&buf, ctx); err != nil {
			return nil, fmt.Errorf("failed to render %q: %w", name, err)
		}
		return buf.Bytes(), nil
	}

	data, err := templatesFS.ReadFile(path.Join("templates", name))
	if err != nil {
		return nil, fmt.Errorf("unknown content reference %q: %w", name, err)
	}
	return data, nil
}
