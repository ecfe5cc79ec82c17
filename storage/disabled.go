package storage

import (
	"context"
	"errors"
	"io"
)

// ErrStorageDisabled is returned by the disabled uploader; the API surface
// stays up without object storage credentials, uploads just fail cleanly.
var ErrStorageDisabled = errors.New("file storage is not configured")

type disabledUploader struct{}

// NewDisabledUploader is the fallback when no storage credentials are set.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (disabledUploader) Delete(context.Context, string) error {
	return ErrStorageDisabled
}

func (disabledUploader) PublicURL(key string) string {
	return ""
}

func (disabledUploader) KeyFromURL(string) (string, bool) {
	return "", false
}
