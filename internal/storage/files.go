// Package storage keeps product files on local disk outside any statically
// served directory. Files are stored under random names; the original name
// survives only as database metadata and is restored on download.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"digital-downloads-store/internal/config"

	"github.com/google/uuid"
)

type StoredFile struct {
	Path string
	Name string
	Size int64
	Type string
}

type Store struct {
	privateDir string
	previewDir string
}

func NewStore(cfg config.Files) (*Store, error) {
	for _, dir := range []string{cfg.PrivateDir, cfg.PreviewDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return &Store{privateDir: cfg.PrivateDir, previewDir: cfg.PreviewDir}, nil
}

// SaveProduct writes src into the private dir under a random name and
// returns the metadata to persist with the product.
func (s *Store) SaveProduct(src io.Reader, originalName string) (*StoredFile, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	stored := uuid.NewString()
	if ext != "" {
		stored += "." + ext
	}

	size, err := s.write(filepath.Join(s.privateDir, stored), src)
	if err != nil {
		return nil, err
	}

	return &StoredFile{
		Path: stored,
		Name: filepath.Base(originalName),
		Size: size,
		Type: ext,
	}, nil
}

// SavePreview stores a preview image and returns its stored name.
func (s *Store) SavePreview(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	stored := uuid.NewString() + ext

	if _, err := s.write(filepath.Join(s.previewDir, stored), src); err != nil {
		return "", err
	}
	return stored, nil
}

func (s *Store) write(path string, src io.Reader) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("write file: %w", err)
	}
	return size, nil
}

func (s *Store) DeleteProduct(storedPath string) error {
	if storedPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.privateDir, filepath.Base(storedPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ProductFilePath resolves a stored name to an absolute path, refusing
// anything that escapes the private dir.
func (s *Store) ProductFilePath(storedPath string) (string, error) {
	name := filepath.Base(storedPath)
	if name == "." || name == string(filepath.Separator) || storedPath == "" {
		return "", os.ErrNotExist
	}

	full := filepath.Join(s.privateDir, name)
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}
