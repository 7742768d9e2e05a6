package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	cfg "github.com/templui/imagerepo/internal/config"
)

var (
	ErrNotFound    = errors.New("file not found in storage")
	ErrInvalidPath = errors.New("invalid storage path")
)

// Storage defines the interface for file storage operations.
// Paths are slash-separated and relative to the storage root.
type Storage interface {
	// Save stores a file at the given path, replacing any existing content
	Save(path string, file io.Reader) error

	// Open returns a reader for the file at the given path
	Open(path string) (io.ReadCloser, error)

	// Exists reports whether a file is stored at the given path
	Exists(path string) (bool, error)

	// Delete removes a file at the given path
	Delete(path string) error
}

// Presigner is implemented by storages that can hand out temporary download links.
type Presigner interface {
	PresignedURL(path string, expiry time.Duration) (string, error)
	PresignExpiry() time.Duration
}

// New creates the storage backend selected by STORAGE_DRIVER
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local", "":
		slog.Info("initializing local storage", "root", c.MediaRoot)
		return NewLocalStorage(c.MediaRoot)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			UsePathStyle:  c.S3UsePathStyle,
			PresignExpiry: c.S3PresignExpiry,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
