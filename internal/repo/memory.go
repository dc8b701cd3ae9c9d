package repo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pkordes/tags-widget/internal/domain"
)

// memoryKVRepo keeps everything in a map. State lives as long as the process.
type memoryKVRepo struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryKV constructs an empty in-memory KVRepo.
func NewMemoryKV() KVRepo {
	return &memoryKVRepo{items: map[string]string{}}
}

func (r *memoryKVRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	if !ok {
		return "", fmt.Errorf("repo.KVRepo.Get: %w", domain.ErrNotFound)
	}
	return v, nil
}

func (r *memoryKVRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = value
	return nil
}

func (r *memoryKVRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key)
	return nil
}

func (r *memoryKVRepo) Keys(_ context.Context, prefix string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := []string{}
	for k := range r.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}
