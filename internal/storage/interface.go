package storage

import (
	"context"
	"io"
)

// ObjectStore stages large audio files where the speech service can read them.
type ObjectStore interface {
	// Upload writes r under key and returns a URI the speech API accepts.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
