// Package storage keeps uploaded files on local disk or in an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"social-app-go/internal/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

var (
	ErrNotFound   = errors.New("file not found")
	ErrInvalidKey = errors.New("invalid storage key")
)

type Object struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

type FileStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalStore(cfg.LocalRoot, cfg.PublicPrefix)
	case DriverS3:
		return NewS3Store(ctx, cfg.S3, cfg.PublicPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// CleanKey normalizes a slash separated key and rejects anything escaping the store root.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}

	cleaned := strings.TrimLeft(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func publicURL(prefix, key string) string {
	return strings.TrimRight(prefix, "/") + "/" + key
}
