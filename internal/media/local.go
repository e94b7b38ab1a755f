package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocalPrefix is the URL path the local upload directory is served under.
const LocalPrefix = "/uploads"

// LocalBackend writes images below a directory on disk.
type LocalBackend struct {
	dir string
}

func NewLocalBackend(dir string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &LocalBackend{dir: dir}, nil
}

// Dir returns the root directory.
func (b *LocalBackend) Dir() string {
	return b.dir
}

func (b *LocalBackend) Put(_ context.Context, key string, body []byte, _ string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, body, 0o644) //nolint:gosec
}

func (b *LocalBackend) Delete(_ context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *LocalBackend) URL(key string) string {
	return LocalPrefix + "/" + filepath.ToSlash(key)
}

func (b *LocalBackend) path(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.dir, filepath.FromSlash(key)), nil
}
