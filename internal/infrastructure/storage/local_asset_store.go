package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
)

// PublicScheme prefixes URIs of files under the local public root
const PublicScheme = "public://"

var _ integrationapp.AssetStore = (*LocalAssetStore)(nil)

// LocalAssetStore writes media below a root directory
type LocalAssetStore struct {
	root string
}

// NewLocalAssetStore creates the root directory when missing
func NewLocalAssetStore(root string) (*LocalAssetStore, error) {
	if root == "" {
		return nil, errors.New("asset root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create asset root: %w", err)
	}
	return &LocalAssetStore{root: root}, nil
}

func (s *LocalAssetStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimLeft(key, "/"))
	if clean == "/" {
		return "", errors.New("storage key is required")
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put writes data to root/key, creating parent directories
func (s *LocalAssetStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create asset directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return s.URI(key), nil
}

// Exists reports whether root/key is a regular file
func (s *LocalAssetStore) Exists(_ context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// URI returns public://key
func (s *LocalAssetStore) URI(key string) string {
	return PublicScheme + strings.TrimLeft(key, "/")
}
