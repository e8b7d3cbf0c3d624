// Package textpatch applies and removes marker-delimited blocks in plain
// text files.
//
// A patched block is an exact literal: fixed start and end markers with
// fixed content between them, no substitution. That makes removal a pure
// byte operation: locate the literal block, delete it, and strip the one
// separator newline Apply inserted, leaving the rest of the file
// byte-identical to its pre-patch content.
package textpatch

import "bytes"

// Def is the schema-declared patch definition for one text file. Block
// must end with a newline.
type Def struct {
	// Block is the exact marker-delimited content, including markers.
	Block string

	// CreateIfMissing permits creating the host file when absent.
	CreateIfMissing bool
}

// Apply prepends the block to content. It is idempotent: if the exact
// block is already present anywhere in the file it is a no-op. A nil or
// empty content produces a file holding only the block. The returned bool
// reports whether the content changed.
func Apply(content []byte, def Def) ([]byte, bool) {
	block := []byte(def.Block)
	if bytes.Contains(content, block) {
		return content, false
	}
	if len(content) == 0 {
		return append([]byte(nil), block...), true
	}

	out := make([]byte, 0, len(block)+1+len(content))
	out = append(out, block...)
	out = append(out, '\n')
	out = append(out, content...)
	return out, true
}

// Remove deletes the exact block from content. When the block sat at the
// top of the file, the single separator newline Apply inserted is stripped
// with it, restoring the pre-patch bytes exactly. The returned bool
// reports whether a block was found and removed.
func Remove(content []byte, def Def) ([]byte, bool) {
	block := []byte(def.Block)
	idx := bytes.Index(content, block)
	if idx < 0 {
		return content, false
	}

	rest := append([]byte(nil), content[:idx]...)
	rest = append(rest, content[idx+len(block):]...)

	// Apply inserts block + "\n" at offset 0; strip that separator.
	if idx == 0 && len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	}
	return rest, true
}

// IsBlank reports whether content is empty or whitespace only. A file
// left blank by Remove was created by Apply and is deleted rather than
// kept empty.
func IsBlank(content []byte) bool {
	return len(bytes.TrimSpace(content)) == 0
}
