package ledger

import (
	"sync"

	"coinsim/internal/store"
)

// Manager hands out one Ledger per user, hydrating it on first use.
// Uses per-user instances instead of a global lock so trades for different
// users never contend.
type Manager struct {
	store store.AccountStore

	mu      sync.RWMutex
	ledgers map[string]*Ledger
}

func NewManager(st store.AccountStore) *Manager {
	return &Manager{
		store:   st,
		ledgers: make(map[string]*Ledger),
	}
}

// Get returns the ready ledger for userID, creating and hydrating it if this
// is the first access. Unknown users get a fresh default account.
func (m *Manager) Get(userID string) (*Ledger, error) {
	m.mu.Lock()
	l, ok := m.ledgers[userID]
	if !ok {
		l = New(userID, m.store)
		m.ledgers[userID] = l
	}
	m.mu.Unlock()

	// Hydrate is idempotent, so concurrent first accesses are fine.
	if err := l.Hydrate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Drop forgets the in-memory ledger for userID, e.g. on logout. The next Get
// rehydrates from the store.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	delete(m.ledgers, userID)
	m.mu.Unlock()
}
