package storage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

// BlobStore keeps opaque byte streams under slash-separated keys.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ImportKey names a fresh blob for the source text of one question import.
func ImportKey(teacherID string) string {
	return path.Join("imports", path.Base("/"+teacherID), uuid.NewString()+".txt")
}
