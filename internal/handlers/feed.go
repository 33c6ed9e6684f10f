package handlers

import (
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// PriceUpdate is one entry of the websocket price feed.
type PriceUpdate struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name,omitempty"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	Timestamp time.Time `json:"timestamp"`
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins (for development and demo)
	},
}

// PriceFeed handles WebSocket connections for live price updates. The feed
// streams the cached market snapshot; when the gateway has no data it falls
// back to a simulated random walk so dashboards stay alive.
func (a *API) PriceFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	log.Println("Client connected to price feed")

	// Fallback symbols with seed prices, used only when the snapshot is empty.
	fallback := map[string]float64{
		"BTC":  5000000.00,
		"ETH":  300000.00,
		"SOL":  15000.00,
		"DOGE": 20.00,
		"ADA":  80.00,
	}
	symbols := []string{"BTC", "ETH", "SOL", "DOGE", "ADA"}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return

		case <-ticker.C:
			coins := a.Market.Snapshot()

			if len(coins) > 0 {
				updates := make([]PriceUpdate, 0, len(coins))
				for _, coin := range coins {
					updates = append(updates, PriceUpdate{
						Symbol:    coin.Symbol,
						Name:      coin.Name,
						Price:     coin.CurrentPrice,
						Change:    coin.PriceChangePercentage24h,
						Timestamp: time.Now(),
					})
				}
				if err := conn.WriteJSON(updates); err != nil {
					log.Println("WebSocket write error:", err)
					return
				}
				continue
			}

			// Simulate a price change (-2% to +2%)
			symbol := symbols[rand.Intn(len(symbols))]
			changePercent := (rand.Float64() - 0.5) * 4
			newPrice := fallback[symbol] * (1 + changePercent/100)
			fallback[symbol] = newPrice

			update := []PriceUpdate{{
				Symbol:    symbol,
				Price:     newPrice,
				Change:    changePercent,
				Timestamp: time.Now(),
			}}
			if err := conn.WriteJSON(update); err != nil {
				log.Println("WebSocket write error:", err)
				return
			}
		}
	}
}
