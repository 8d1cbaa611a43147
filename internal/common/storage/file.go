// internal/common/storage/file.go
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key under a base directory. It is the
// single-profile analog of browser local storage: no locking across
// processes, last writer wins.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	// Write-then-rename so a crash mid-write never leaves a truncated draft.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		key := decodeName(e.Name())
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, encodeName(key))
}

// Keys contain dots and user identifiers; keep them filesystem-safe.
func encodeName(key string) string {
	r := strings.NewReplacer("/", "%2F", "\\", "%5C")
	return r.Replace(key)
}

func decodeName(name string) string {
	r := strings.NewReplacer("%2F", "/", "%5C", "\\")
	return r.Replace(name)
}
