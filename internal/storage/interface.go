package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Download when the key does not exist.
// It is the only way callers learn an object is absent.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage stores avatars and prediction model artifacts.
type ObjectStorage interface {
	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download opens an object. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the URL for accessing an object
	GetURL(key string) string

	// Delete deletes an object; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
