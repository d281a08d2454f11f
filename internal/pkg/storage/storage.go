package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores file under path and returns the cleaned key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of a stored key.
	URL(path string) string

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
