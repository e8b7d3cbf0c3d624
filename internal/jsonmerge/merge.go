// Package jsonmerge implements reversible, provenance-tracked merges into
// JSON documents.
//
// A Def enumerates the key paths a schema entry owns, the value and policy
// for each, and which containers may be pruned when emptied. Merge and
// Unmerge splice edits into the original byte stream via sjson, so key
// order, indentation, and every byte the def does not own survive a
// merge/unmerge round trip untouched.
package jsonmerge

import (
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Policy controls how a merge entry treats an existing value at its key
// path. The policy is declared per key in the schema, never inferred at
// merge time.
type Policy int

const (
	// SetIfAbsent sets the value only when the key path does not exist.
	SetIfAbsent Policy = iota

	// Overwrite always sets the value.
	Overwrite

	// AppendUnique treats the key path as an array and appends the value
	// unless an equal element is already present. Elements are matched by
	// value identity, never by position.
	AppendUnique
)

// Entry is one owned key path within a merge definition.
type Entry struct {
	// KeyPath is the gjson-style dot path of the owned key. Literal dots
	// inside a key are escaped ("editor\\.formatOnSave").
	KeyPath string

	// Value is the JSON-marshalable value to set or append.
	Value any

	// Policy selects the merge behavior for this entry.
	Policy Policy

	// Retain keeps the entry in place on a plain uninstall. Used for
	// use-independent entries such as shared lint/format scripts; a full
	// uninstall strips retained entries too.
	Retain bool
}

// Def is the schema-declared merge definition for one JSON document.
type Def struct {
	// Entries are the key paths this definition owns.
	Entries []Entry

	// CreateIfMissing permits creating the target document when absent.
	CreateIfMissing bool

	// PruneEmpty lists container key paths that may be dropped when an
	// unmerge leaves them empty. Only containers this definition may have
	// created belong here.
	PruneEmpty []string
}

// Merge applies the definition to doc and returns the merged document.
// A nil doc merges into an empty object. Merge is idempotent: merging an
// already-merged document returns it unchanged.
func Merge(doc []byte, def Def) ([]byte, error) {
	out := doc
	if len(out) == 0 {
		out = []byte("{}")
	}

	var err error
	for _, e := range def.Entries {
		switch e.Policy {
		case AppendUnique:
			out, err = appendUnique(out, e)
		case SetIfAbsent:
			if gjson.GetBytes(out, e.KeyPath).Exists() {
				continue
			}
			out, err = sjson.SetBytes(out, e.KeyPath, e.Value)
		case Overwrite:
			if existing := gjson.GetBytes(out, e.KeyPath); existing.Exists() && reflect.DeepEqual(existing.Value(), e.Value) {
				continue
			}
			out, err = sjson.SetBytes(out, e.KeyPath, e.Value)
		default:
			return nil, fmt.Errorf("unknown merge policy %d for %q", e.Policy, e.KeyPath)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to merge %q: %w", e.KeyPath, err)
		}
	}
	return out, nil
}

// appendUnique appends the entry value to the array at the key path,
// creating the array when absent. User-added elements are never reordered
// or deduplicated.
func appendUnique(doc []byte, e Entry) ([]byte, error) {
	arr := gjson.GetBytes(doc, e.KeyPath)
	if !arr.Exists() {
		return sjson.SetBytes(doc, e.KeyPath, []any{e.Value})
	}

	found := false
	arr.ForEach(func(_, v gjson.Result) bool {
		if reflect.DeepEqual(v.Value(), e.Value) {
			found = true
			return false
		}
		return true
	})
	if found {
		return doc, nil
	}
	return sjson.SetBytes(doc, e.KeyPath+".-1", e.Value)
}

// Unmerge removes exactly the entries Merge would have added, identified
// by key path (and by value identity for array elements), and prunes the
// definition's now-empty containers. Keys the def does not own are never
// touched. When full is false, entries marked Retain are left in place.
func Unmerge(doc []byte, def Def, full bool) ([]byte, error) {
	out := doc
	var err error

	for _, e := range def.Entries {
		if e.Retain && !full {
			continue
		}
		if e.Policy == AppendUnique {
			out, err = removeElement(out, e)
		} else {
			if !gjson.GetBytes(out, e.KeyPath).Exists() {
				continue
			}
			out, err = sjson.DeleteBytes(out, e.KeyPath)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to unmerge %q: %w", e.KeyPath, err)
		}
	}

	for _, container := range def.PruneEmpty {
		c := gjson.GetBytes(out, container)
		if !c.Exists() {
			continue
		}
		if (c.IsArray() && len(c.Array()) == 0) || (c.IsObject() && len(c.Map()) == 0) {
			out, err = sjson.DeleteBytes(out, container)
			if err != nil {
				return nil, fmt.Errorf("failed to prune %q: %w", container, err)
			}
		}
	}
	return out, nil
}

// removeElement deletes the array element equal to the entry value, then
// removes the array itself if the definition created it and it is empty.
func removeElement(doc []byte, e Entry) ([]byte, error) {
	arr := gjson.GetBytes(doc, e.KeyPath)
	if !arr.Exists() {
		return doc, nil
	}

	idx := -1
	i := 0
	arr.ForEach(func(_, v gjson.Result) bool {
		if reflect.DeepEqual(v.Value(), e.Value) {
			idx = i
			return false
		}
		i++
		return true
	})
	if idx < 0 {
		return doc, nil
	}
	return sjson.DeleteBytes(doc, fmt.Sprintf("%s.%d", e.KeyPath, idx))
}

// IsEmptyDoc reports whether the document is an empty JSON object. A merge
// target that becomes empty after a full unmerge is removed outright.
func IsEmptyDoc(doc []byte) bool {
	r := gjson.ParseBytes(doc)
	return r.IsObject() && len(r.Map()) == 0
}
