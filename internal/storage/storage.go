// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"io"
)

// Object is a stored object opened for reading. The caller owns Body and
// must close it.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Storage is the interface for the object operations the gateway proxies.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// List returns the keys of all objects in the bucket.
	List(ctx context.Context) ([]string, error)
	// Download opens the object at key for reading.
	Download(ctx context.Context, key string) (*Object, error)
	// Rename moves an object to a new key via server-side copy then delete.
	Rename(ctx context.Context, oldKey, newKey string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
}
