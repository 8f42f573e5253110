// Package storage provides the blob backends attachment content is
// written to. Metadata lives in the database; only the bytes land here.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pmo/backend/internal/infrastructure/config"
)

// ErrBlobNotFound is returned when the requested key holds no object.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore stores attachment content under slash-separated keys
// ({task_id}/{filename}). Implementations must treat Delete of a
// missing key as success so cleanup paths stay idempotent.
type BlobStore interface {
	// Put writes the object under the given key, replacing any
	// existing content
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get opens the object for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object if it exists
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every object whose key starts with prefix
	DeletePrefix(ctx context.Context, prefix string) error

	// Exists reports whether an object is stored under the key
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the blob store selected by storage.driver. The local
// driver roots itself in the upload directory; the s3 driver also
// ensures the bucket exists so the first upload cannot race bucket
// creation.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (BlobStore, error) {
	switch cfg.Storage.Driver {
	case "s3":
		store, err := NewS3BlobStore(&cfg.Storage, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure storage bucket: %w", err)
		}
		return store, nil
	case "local", "":
		return NewLocalBlobStore(cfg.Upload.Dir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
