package store

import "sync"

// MemoryStore keeps records in a map. Its contents are lost when the process exits.
type MemoryStore struct {
	data map[string]string
	mu   sync.Mutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get retrieves a value.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	if err := checkKey("Get", key); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.data[key]
	return value, ok, nil
}

// Set stores a value.
func (m *MemoryStore) Set(key, value string) error {
	if err := checkKey("Set", key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Remove deletes a value.
func (m *MemoryStore) Remove(key string) error {
	if err := checkKey("Remove", key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
