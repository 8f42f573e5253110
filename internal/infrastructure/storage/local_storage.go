package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Ensure LocalBlobStore implements BlobStore
var _ BlobStore = (*LocalBlobStore)(nil)

// LocalBlobStore keeps objects as plain files under a root directory.
// Keys map to relative paths, so {task_id}/{filename} becomes a
// per-task subdirectory.
type LocalBlobStore struct {
	root string
}

// NewLocalBlobStore creates the root directory if needed and returns a
// store writing beneath it.
func NewLocalBlobStore(root string) (*LocalBlobStore, error) {
	if root == "" {
		return nil, errors.New("upload directory is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid upload directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalBlobStore{root: abs}, nil
}

// path resolves a key to an absolute file path, rejecting anything
// that would escape the root.
func (s *LocalBlobStore) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes the object under the given key. The content type is
// ignored; local files carry no metadata.
func (s *LocalBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Get opens the stored file for reading
func (s *LocalBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// Delete removes the stored file. A missing file is not an error.
func (s *LocalBlobStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeletePrefix removes the subtree the prefix maps to. Task cleanup
// passes the task id, which removes that task's directory entirely.
func (s *LocalBlobStore) DeletePrefix(ctx context.Context, prefix string) error {
	path, err := s.path(prefix)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}
	return nil
}

// Exists reports whether a regular file is stored under the key
func (s *LocalBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// Root returns the absolute root directory
func (s *LocalBlobStore) Root() string {
	return s.root
}
