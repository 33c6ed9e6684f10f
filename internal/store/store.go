// Package store persists account state as one whole document per user.
package store

import (
	"errors"

	"coinsim/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the given key.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when a unique constraint is violated.
	ErrExists = errors.New("already exists")
)

// AccountStore loads and saves the full account document for a user.
// Save always writes the whole state; there are no partial updates.
type AccountStore interface {
	Load(userID string) (models.AccountState, error)
	Save(userID string, state models.AccountState) error
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(u models.User) error
	GetUserByEmail(email string) (models.User, error)
}
