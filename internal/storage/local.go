package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"
)

type LocalStore struct {
	root         string
	publicPrefix string
}

func NewLocalStore(root, publicPrefix string) (*LocalStore, error) {
	if root == "" {
		root = "storage"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs, publicPrefix: publicPrefix}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, Object{}, err
	}

	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, Object{}, ErrNotFound
	}
	if err != nil {
		return nil, Object{}, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Object{}, err
	}
	if info.IsDir() {
		f.Close()
		return nil, Object{}, ErrNotFound
	}

	return f, Object{
		Key:         key,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(full)),
		ModTime:     info.ModTime(),
	}, nil
}

// Delete removes the file. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return publicURL(s.publicPrefix, key)
}

func (s *LocalStore) path(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
