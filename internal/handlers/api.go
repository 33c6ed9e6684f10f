// Package handlers wires the HTTP API over the ledger, verification service
// and market gateway.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coinsim/internal/ledger"
	"coinsim/internal/market"
	"coinsim/internal/store"
	"coinsim/internal/verify"
)

// API holds the service dependencies shared by all handlers.
type API struct {
	Ledgers *ledger.Manager
	Trades  *TradeProcessor
	Market  *market.Client
	Verify  *verify.Service
	Users   store.UserStore
}

func NewAPI(ledgers *ledger.Manager, trades *TradeProcessor, mkt *market.Client, vrf *verify.Service, users store.UserStore) *API {
	return &API{
		Ledgers: ledgers,
		Trades:  trades,
		Market:  mkt,
		Verify:  vrf,
		Users:   users,
	}
}

// Router builds the gin engine with all routes registered.
func (a *API) Router() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/otp/send", a.SendOTP)
			auth.POST("/otp/verify", a.VerifyOTP)
			auth.POST("/signup", a.Signup)
		}

		// Trading endpoints
		api.POST("/trades/buy", a.BuyAsset)
		api.POST("/trades/sell", a.SellAsset)
		api.GET("/trades/:userId", a.GetTradeHistory)
		api.GET("/portfolio/:userId", a.GetPortfolio)
		api.POST("/portfolio/:userId/refresh", a.RefreshPortfolio)

		// Market data
		api.GET("/markets", a.ListMarkets)
		api.GET("/markets/:coinId", a.GetCoinDetails)
		api.GET("/markets/:coinId/price", a.GetCoinPrice)

		// Educational content
		api.GET("/lessons", a.ListLessons)
		api.GET("/lessons/:id", a.GetLesson)
	}

	// WebSocket price feed
	router.GET("/ws/prices", a.PriceFeed)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}

// statusFor maps ledger errors to HTTP status codes. Domain errors are the
// caller's to fix; ErrNotReady means try again once the account is loaded.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientHoldings),
		errors.Is(err, ledger.ErrNoSuchHolding),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
