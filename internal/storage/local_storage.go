package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ciftci/ciftci-backend/pkg/logger"
)

// LocalStorage writes files below root; URLs are prefix + "/" + key
type LocalStorage struct {
	root   string
	prefix string
}

func NewLocalStorage(root, publicPrefix string) *LocalStorage {
	return &LocalStorage{
		root:   root,
		prefix: strings.TrimSuffix(publicPrefix, "/"),
	}
}

// Root is the directory the router serves files from
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	target, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Debug("File stored locally", map[string]interface{}{
		"key":          key,
		"bytes":        written,
		"content_type": contentType,
	})
	return s.URL(key), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.prefix + "/" + strings.TrimPrefix(key, "/")
}
