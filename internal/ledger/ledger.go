// Package ledger owns per-user paper-trading state: cash balance, holdings
// tracked at weighted-average cost, and the transaction history.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"coinsim/internal/models"
	"coinsim/internal/store"
)

var (
	ErrNotReady             = errors.New("account not loaded yet")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidPrice         = errors.New("price must not be negative")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrNoSuchHolding        = errors.New("no holding for symbol")
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrPersistenceUnavailable signals that the in-memory mutation was
	// applied but the durable write failed. The caller decides what to do
	// with the gap; the ledger does not roll back.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// Ledger applies buy/sell operations for one user. It starts in a loading
// state and rejects mutations until Hydrate has pulled the account document
// from the store. All operations are safe for concurrent use.
type Ledger struct {
	userID string
	store  store.AccountStore

	mu    sync.Mutex
	state models.AccountState
	ready bool

	now   func() time.Time
	newID func() string
}

func New(userID string, st store.AccountStore) *Ledger {
	return &Ledger{
		userID: userID,
		store:  st,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Hydrate loads the account from the store. A missing account is initialized
// with the starting balance and persisted before the ledger becomes ready.
// Hydrate is idempotent once the ledger is ready.
func (l *Ledger) Hydrate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ready {
		return nil
	}

	state, err := l.store.Load(l.userID)
	if errors.Is(err, store.ErrNotFound) {
		state = models.NewAccountState()
		if err := l.store.Save(l.userID, state); err != nil {
			return persistErr(err)
		}
	} else if err != nil {
		return fmt.Errorf("load account %s: %w", l.userID, err)
	}

	l.state = state
	l.ready = true
	return nil
}

// Buy debits total = amount*price from the balance and merges the purchase
// into the holding for symbol at weighted-average cost. The transaction is
// recorded and the whole account is saved; a failed save is reported via
// ErrPersistenceUnavailable with the mutation kept in memory.
func (l *Ledger) Buy(symbol, name string, amount, price float64) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return models.Transaction{}, ErrNotReady
	}
	if amount <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	if price < 0 {
		return models.Transaction{}, ErrInvalidPrice
	}

	total := amount * price
	if total > l.state.Balance {
		return models.Transaction{}, ErrInsufficientFunds
	}

	l.state.Balance -= total

	if i := l.findHolding(symbol); i >= 0 {
		h := &l.state.Holdings[i]
		h.Amount += amount
		h.TotalInvested += total
		h.AveragePrice = h.TotalInvested / h.Amount
	} else {
		l.state.Holdings = append(l.state.Holdings, models.Holding{
			Symbol:        symbol,
			Name:          name,
			Amount:        amount,
			AveragePrice:  price,
			TotalInvested: total,
		})
	}

	tx := l.record(symbol, name, models.TradeBuy, amount, price, total)

	if err := l.store.Save(l.userID, l.state); err != nil {
		return tx, persistErr(err)
	}
	return tx, nil
}

// Sell credits the proceeds to the balance and reduces the position. Selling
// the whole position removes the holding; a partial sell reduces the cost
// basis proportionally and leaves the average price unchanged.
func (l *Ledger) Sell(symbol string, amount, price float64) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return models.Transaction{}, ErrNotReady
	}
	if amount <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	if price < 0 {
		return models.Transaction{}, ErrInvalidPrice
	}

	i := l.findHolding(symbol)
	if i < 0 {
		return models.Transaction{}, ErrNoSuchHolding
	}

	h := &l.state.Holdings[i]
	if h.Amount < amount {
		return models.Transaction{}, ErrInsufficientHoldings
	}

	total := amount * price
	l.state.Balance += total
	name := h.Name

	if h.Amount == amount {
		l.state.Holdings = append(l.state.Holdings[:i], l.state.Holdings[i+1:]...)
	} else {
		soldCost := (amount / h.Amount) * h.TotalInvested
		h.Amount -= amount
		h.TotalInvested -= soldCost
	}

	tx := l.record(symbol, name, models.TradeSell, amount, price, total)

	if err := l.store.Save(l.userID, l.state); err != nil {
		return tx, persistErr(err)
	}
	return tx, nil
}

// Refresh reloads the account from the store, discarding any in-memory state
// that never made it to disk.
func (l *Ledger) Refresh() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return ErrNotReady
	}

	state, err := l.store.Load(l.userID)
	if err != nil {
		return fmt.Errorf("refresh account %s: %w", l.userID, err)
	}
	l.state = state
	return nil
}

// Snapshot returns a copy of the current account state.
func (l *Ledger) Snapshot() models.AccountState {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := models.AccountState{
		Balance:      l.state.Balance,
		Holdings:     make([]models.Holding, len(l.state.Holdings)),
		Transactions: make([]models.Transaction, len(l.state.Transactions)),
	}
	copy(out.Holdings, l.state.Holdings)
	copy(out.Transactions, l.state.Transactions)
	return out
}

// Metrics returns the derived aggregates, recomputed from current state.
// Value is taken at cost basis (average purchase price), not market price,
// so gain/loss only moves once positions are sold.
func (l *Ledger) Metrics() (invested, value, gainLoss float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, h := range l.state.Holdings {
		invested += h.TotalInvested
		value += h.Amount * h.AveragePrice
	}
	return invested, value, value - invested
}

func (l *Ledger) record(symbol, name string, kind models.TradeKind, amount, price, total float64) models.Transaction {
	tx := models.Transaction{
		ID:        l.newID(),
		Symbol:    symbol,
		Name:      name,
		Kind:      kind,
		Amount:    amount,
		Price:     price,
		Total:     total,
		Timestamp: l.now(),
	}
	// Newest first.
	l.state.Transactions = append([]models.Transaction{tx}, l.state.Transactions...)
	return tx
}

func (l *Ledger) findHolding(symbol string) int {
	for i, h := range l.state.Holdings {
		if h.Symbol == symbol {
			return i
		}
	}
	return -1
}

func persistErr(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
}
