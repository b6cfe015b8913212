package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes images below a directory served at URLPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Dir is the filesystem root served under the URL prefix.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) resolve(key string) (string, string) {
	clean := path.Clean("/" + key)
	return clean, filepath.Join(s.dir, filepath.FromSlash(clean))
}

func (s *LocalStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	clean, full := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.urlPrefix + clean, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	_, full := s.resolve(key)
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
