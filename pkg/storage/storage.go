package storage

import (
	"context"
	"errors"
)

// ErrNotFound reports that no object exists at the requested path. Backends
// wrap it so callers can test with errors.Is regardless of the backend.
var ErrNotFound = errors.New("not found")

// Storage is a flat key-value view over files. Paths use forward slashes and
// are relative to the backend's root; List returns the paths directly under a
// prefix.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, path string) (bool, error)
}
