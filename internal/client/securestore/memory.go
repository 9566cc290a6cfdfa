package securestore

import (
	"bytes"
	"context"
	"maps"
	"sync"
)

// MemoryStore is a process-local Store. It backs the client's ephemeral mode
// and the tests of packages built on top of Store.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = bytes.Clone(value)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Batch stages writes on a copy and swaps it in only when fn succeeds.
func (m *MemoryStore) Batch(ctx context.Context, fn func(ctx context.Context, w Writer) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := &MemoryStore{items: maps.Clone(m.items)}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	m.items = staged.items
	return nil
}

// Keys lists the stored keys, in no particular order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}
