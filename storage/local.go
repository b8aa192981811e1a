package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files under Dir; the router serves Dir at BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Save(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	full, rel, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return s.BaseURL + "/" + rel, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	full, _, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// path keeps keys inside Dir and returns the cleaned key in slash form.
func (s *LocalStore) path(key string) (string, string, error) {
	clean := filepath.Clean(filepath.FromSlash("/" + key))
	if clean == string(filepath.Separator) {
		return "", "", fmt.Errorf("empty key")
	}
	return filepath.Join(s.Dir, clean), strings.TrimPrefix(filepath.ToSlash(clean), "/"), nil
}
