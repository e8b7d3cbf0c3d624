// Package hash provides content fingerprinting for change detection.
//
// Devkit uses SHA-256 fingerprints to decide whether a file on disk matches
// the content the tool would generate for it. Managed files whose
// fingerprint differs from the expected generated output are treated as
// hand-edited and left untouched.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Bytes computes the SHA-256 fingerprint of the given content.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Equal reports whether two byte slices have the same fingerprint.
// This is the comparison used for "has this file been modified" checks.
func Equal(a, b []byte) bool {
	return Bytes(a) == Bytes(b)
}

// File computes the SHA-256 fingerprint of the file at the given path.
func File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
