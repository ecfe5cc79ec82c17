package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores match footage in an object store and hands back
// publicly reachable URLs.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	PublicURL(key string) string

	// KeyFromURL reverses PublicURL. Returns false for URLs outside this
	// uploader's public base, e.g. externally hosted footage.
	KeyFromURL(publicURL string) (string, bool)
}
