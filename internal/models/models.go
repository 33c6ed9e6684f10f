package models

import "time"

// StartingBalance is the virtual cash granted to every new account.
const StartingBalance = 10000.0

// TradeKind is the direction of a trade.
type TradeKind string

const (
	TradeBuy  TradeKind = "buy"
	TradeSell TradeKind = "sell"
)

// Holding represents a user's position in one asset, tracked at cost basis.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	AveragePrice  float64 `json:"average_price"`
	TotalInvested float64 `json:"total_invested"`
}

// Transaction is one executed buy or sell. Immutable once recorded.
type Transaction struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Kind      TradeKind `json:"kind"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// AccountState is the whole per-user document: cash balance, open positions
// and the transaction history, newest first. It is always persisted as a unit.
type AccountState struct {
	Balance      float64       `json:"balance"`
	Holdings     []Holding     `json:"holdings"`
	Transactions []Transaction `json:"transactions"`
}

// NewAccountState returns a fresh account with the starting balance.
func NewAccountState() AccountState {
	return AccountState{
		Balance:      StartingBalance,
		Holdings:     []Holding{},
		Transactions: []Transaction{},
	}
}

// User represents a registered user
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// BuyRequest - what client sends to buy an asset
type BuyRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Symbol string  `json:"symbol" binding:"required"`
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Price  float64 `json:"price" binding:"min=0"`
}

// SellRequest - what client sends to sell an asset
type SellRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Symbol string  `json:"symbol" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Price  float64 `json:"price" binding:"min=0"`
}

// SignupRequest - account creation, gated on email verification
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// OTPSendRequest asks for a verification code to be issued.
type OTPSendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// OTPVerifyRequest submits a verification code.
type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// HoldingView decorates a holding with the live market price when the
// gateway has one. A zero market price means "unknown", not free.
type HoldingView struct {
	Holding
	MarketPrice float64 `json:"market_price"`
	MarketValue float64 `json:"market_value"`
}

// PortfolioResponse - what we send back to the client
type PortfolioResponse struct {
	Balance       float64       `json:"balance"`
	Holdings      []HoldingView `json:"holdings"`
	TotalInvested float64       `json:"total_invested"`
	TotalValue    float64       `json:"total_value"`
	TotalGainLoss float64       `json:"total_gain_loss"`
}
