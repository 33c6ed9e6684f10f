package verify

import "sync"

// memStore is the default in-process code store: one live record per email.
type memStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an in-memory CodeStore.
func NewMemoryStore() CodeStore {
	return &memStore{records: make(map[string]Record)}
}

func (m *memStore) Get(email string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[email]
	return rec, ok
}

func (m *memStore) Put(email string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[email] = rec
}

func (m *memStore) Delete(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, email)
}
