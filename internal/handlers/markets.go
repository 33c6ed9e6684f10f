package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListMarkets handles GET /api/markets?limit=N
// An empty coin list means the upstream feed is unavailable, not that there
// are no markets.
func (a *API) ListMarkets(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 250 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	coins := a.Market.TopCoins(c.Request.Context(), limit)

	c.JSON(http.StatusOK, gin.H{
		"coins":    coins,
		"count":    len(coins),
		"currency": a.Market.Currency(),
	})
}

// GetCoinDetails handles GET /api/markets/:coinId
func (a *API) GetCoinDetails(c *gin.Context) {
	details := a.Market.CoinDetails(c.Request.Context(), c.Param("coinId"))
	if details == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "market data unavailable"})
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetCoinPrice handles GET /api/markets/:coinId/price
// A zero price means "unknown".
func (a *API) GetCoinPrice(c *gin.Context) {
	coinID := c.Param("coinId")
	price := a.Market.SimplePrice(c.Request.Context(), coinID)

	c.JSON(http.StatusOK, gin.H{
		"coin_id":  coinID,
		"currency": a.Market.Currency(),
		"price":    price,
	})
}
