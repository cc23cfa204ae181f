// Package blobstore persists proof-of-delivery artifacts on the local
// filesystem. The returned reference is the relative object key, which stays
// valid if the root directory is remounted elsewhere.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements the object storage port on a local directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at the given directory.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob store root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Upload streams the body to a file under the store root and returns the
// object key as the durable reference. Keys may contain slashes; path
// traversal outside the root is rejected.
func (s *LocalStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleaned := filepath.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object key: %q", key)
	}

	target := filepath.Join(s.root, cleaned)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	// Write to a temp file first so a failed upload never leaves a partial object
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return cleaned, nil
}
