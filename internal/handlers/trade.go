package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coinsim/internal/models"
)

// BuyAsset handles POST /api/trades/buy
func (a *API) BuyAsset(c *gin.Context) {
	var req models.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := a.Trades.SubmitBuy(req)
	if !result.Success {
		c.JSON(statusFor(result.Err), gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Trade executed successfully",
		"transaction_id": result.TransactionID,
		"total_cost":     result.Total,
		"persisted":      result.Persisted,
	})
}

// SellAsset handles POST /api/trades/sell
func (a *API) SellAsset(c *gin.Context) {
	var req models.SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := a.Trades.SubmitSell(req)
	if !result.Success {
		c.JSON(statusFor(result.Err), gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Asset sold successfully",
		"transaction_id": result.TransactionID,
		"total_proceeds": result.Total,
		"persisted":      result.Persisted,
	})
}

// GetPortfolio handles GET /api/portfolio/:userId
func (a *API) GetPortfolio(c *gin.Context) {
	userID := c.Param("userId")

	l, err := a.Ledgers.Get(userID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "account unavailable"})
		return
	}

	state := l.Snapshot()
	invested, value, gainLoss := l.Metrics()

	holdings := make([]models.HoldingView, 0, len(state.Holdings))
	for _, h := range state.Holdings {
		view := models.HoldingView{Holding: h}
		// Live price decorates the view; zero means the gateway has no data.
		if price, ok := a.Market.Price(h.Symbol); ok {
			view.MarketPrice = price
			view.MarketValue = price * h.Amount
		}
		holdings = append(holdings, view)
	}

	c.JSON(http.StatusOK, models.PortfolioResponse{
		Balance:       state.Balance,
		Holdings:      holdings,
		TotalInvested: invested,
		TotalValue:    value,
		TotalGainLoss: gainLoss,
	})
}

// RefreshPortfolio handles POST /api/portfolio/:userId/refresh
func (a *API) RefreshPortfolio(c *gin.Context) {
	userID := c.Param("userId")

	l, err := a.Ledgers.Get(userID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "account unavailable"})
		return
	}

	if err := l.Refresh(); err != nil {
		c.JSON(statusFor(err), gin.H{"error": "failed to refresh portfolio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Portfolio refreshed"})
}

// GetTradeHistory handles GET /api/trades/:userId
func (a *API) GetTradeHistory(c *gin.Context) {
	userID := c.Param("userId")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	l, err := a.Ledgers.Get(userID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "account unavailable"})
		return
	}

	transactions := l.Snapshot().Transactions
	if len(transactions) > limit {
		transactions = transactions[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}
