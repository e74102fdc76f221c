package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore implements Store over an in-process map. It is the test double
// for the sqlite store and goes through the same JSON round-trip so tests
// exercise serialization too.
type MemoryStore struct {
	items map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
	}
}

// Load unmarshals the stored document into v.
func (m *MemoryStore) Load(key string, v any) (bool, error) {
	m.mutex.RLock()
	raw, exists := m.items[key]
	m.mutex.RUnlock()

	if !exists {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode value for key %q: %w", key, err)
	}
	return true, nil
}

// Save marshals v and stores it under key.
func (m *MemoryStore) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.items[key] = raw
	return nil
}

// Delete removes the key if present.
func (m *MemoryStore) Delete(key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.items, key)
	return nil
}

// Size returns the number of stored keys.
func (m *MemoryStore) Size() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.items)
}
