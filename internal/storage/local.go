// Package storage keeps uploaded room images on the local filesystem.
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

	"roomhub/pkg/utils"
)

var ErrBadKey = errors.New("storage: bad key")

// LocalStore writes blobs under Dir and serves them below BaseURL.
// Keys look like "room_images/<uuid>.<ext>".
type LocalStore struct {
	Dir     string
	BaseURL string
	Prefix  string // key prefix, default "room_images"
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	s := &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), Prefix: "room_images"}
	if err := os.MkdirAll(filepath.Join(dir, s.Prefix), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create media dir: %w", err)
	}
	return s, nil
}

// Save copies r into a new uniquely named file keeping only name's extension.
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	key := path.Join(s.Prefix, utils.NewID()+ext)
	full := filepath.Join(s.Dir, filepath.FromSlash(key))

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("storage: close %s: %w", key, err)
	}
	return key, nil
}

// Remove deletes the blob for key. Missing files are not an error.
func (s *LocalStore) Remove(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}
	return nil
}

// URL is the public address of key.
func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key || !strings.HasPrefix(clean, s.Prefix+"/") {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(clean)), nil
}
