// Package storage abstracts the data layer behind path-like keys so the
// same stores work against the local filesystem in development and an S3
// bucket in production.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist on the backend.
var ErrNotFound = errors.New("storage: not found")

// Backend reads and writes blobs addressed by forward-slash relative paths.
type Backend interface {
	ReadJSON(ctx context.Context, path string, v interface{}) error
	WriteJSON(ctx context.Context, path string, v interface{}) error
	ReadBytes(ctx context.Context, path string) ([]byte, error)
	WriteBytes(ctx context.Context, path string, data []byte, contentType string) error
	Exists(ctx context.Context, path string) (bool, error)
	// List returns paths under dir ending with suffix. An empty suffix
	// matches everything.
	List(ctx context.Context, dir string, suffix string) ([]string, error)
	Delete(ctx context.Context, path string) error
	// EnsureDir creates a directory. No-op for object stores.
	EnsureDir(ctx context.Context, path string) error
}
