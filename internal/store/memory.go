package store

import (
	"strings"
	"sync"

	"coinsim/internal/models"
)

// Memory is an in-process store used by tests and the STORE=memory mode.
// State is copied on the way in and out so callers never share slices.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]models.AccountState
	users    map[string]models.User // keyed by lowercased email
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]models.AccountState),
		users:    make(map[string]models.User),
	}
}

func (m *Memory) Load(userID string) (models.AccountState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.accounts[userID]
	if !ok {
		return models.AccountState{}, ErrNotFound
	}
	return copyState(state), nil
}

func (m *Memory) Save(userID string, state models.AccountState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[userID] = copyState(state)
	return nil
}

func (m *Memory) CreateUser(u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := m.users[key]; ok {
		return ErrExists
	}
	m.users[key] = u
	return nil
}

func (m *Memory) GetUserByEmail(email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func copyState(s models.AccountState) models.AccountState {
	out := models.AccountState{
		Balance:      s.Balance,
		Holdings:     make([]models.Holding, len(s.Holdings)),
		Transactions: make([]models.Transaction, len(s.Transactions)),
	}
	copy(out.Holdings, s.Holdings)
	copy(out.Transactions, s.Transactions)
	return out
}
