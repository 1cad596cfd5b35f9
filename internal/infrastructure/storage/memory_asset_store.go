package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
)

// MemoryScheme prefixes URIs of assets held by a MemoryAssetStore
const MemoryScheme = "memory://"

var _ integrationapp.AssetStore = (*MemoryAssetStore)(nil)

// MemoryAssetStore keeps assets in process memory.
// Use this for dry runs where downloaded media should not be kept.
type MemoryAssetStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryAssetStore creates an empty MemoryAssetStore
func NewMemoryAssetStore() *MemoryAssetStore {
	return &MemoryAssetStore{objects: make(map[string]memoryObject)}
}

func memoryKey(key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", errors.New("storage key is required")
	}
	return key, nil
}

// Put stores a copy of data under key
func (s *MemoryAssetStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	k, err := memoryKey(key)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[k] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return s.URI(k), nil
}

// Exists reports whether key has been stored
func (s *MemoryAssetStore) Exists(_ context.Context, key string) (bool, error) {
	k, err := memoryKey(key)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[k]
	return ok, nil
}

// URI returns memory://key
func (s *MemoryAssetStore) URI(key string) string {
	return MemoryScheme + strings.TrimLeft(key, "/")
}

// Get returns the stored bytes and content type of key
func (s *MemoryAssetStore) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[strings.TrimLeft(key, "/")]
	return obj.data, obj.contentType, ok
}

// Len returns the number of stored assets
func (s *MemoryAssetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
