package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"coinsim/internal/models"
)

// Postgres stores each account as a single JSONB document keyed by user id.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Load(userID string) (models.AccountState, error) {
	var raw []byte
	err := p.db.QueryRow(
		"SELECT state FROM accounts WHERE user_id = $1",
		userID,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return models.AccountState{}, ErrNotFound
	}
	if err != nil {
		return models.AccountState{}, fmt.Errorf("load account: %w", err)
	}

	var state models.AccountState
	if err := json.Unmarshal(raw, &state); err != nil {
		return models.AccountState{}, fmt.Errorf("decode account: %w", err)
	}
	return state, nil
}

func (p *Postgres) Save(userID string, state models.AccountState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	_, err = p.db.Exec(`
        INSERT INTO accounts (user_id, state)
        VALUES ($1, $2)
        ON CONFLICT (user_id)
        DO UPDATE SET state = $2, updated_at = NOW()
    `, userID, raw)

	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (p *Postgres) CreateUser(u models.User) error {
	_, err := p.db.Exec(
		"INSERT INTO users (id, username, email, created_at) VALUES ($1, $2, $3, $4)",
		u.ID, u.Username, u.Email, u.CreatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (p *Postgres) GetUserByEmail(email string) (models.User, error) {
	var u models.User
	err := p.db.QueryRow(
		"SELECT id, username, email, created_at FROM users WHERE lower(email) = lower($1)",
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
