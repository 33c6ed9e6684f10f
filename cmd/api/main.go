package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"coinsim/internal/db"
	"coinsim/internal/handlers"
	"coinsim/internal/ledger"
	"coinsim/internal/mailer"
	"coinsim/internal/market"
	"coinsim/internal/store"
	"coinsim/internal/verify"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults or environment variables")
	}

	// Pick the account/user store
	var accounts store.AccountStore
	var users store.UserStore

	switch getEnv("STORE", "postgres") {
	case "memory":
		mem := store.NewMemory()
		accounts, users = mem, mem
		log.Println("Using in-memory store (state is lost on restart)")
	default:
		sqlDB, err := db.Open()
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer sqlDB.Close()
		pg := store.NewPostgres(sqlDB)
		accounts, users = pg, pg
	}

	ledgers := ledger.NewManager(accounts)

	// Trade processor worker pool
	numWorkers := 5
	if workers := os.Getenv("NUM_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			numWorkers = n
		}
	}
	tradeProcessor := handlers.NewTradeProcessor(numWorkers, ledgers)
	tradeProcessor.Start()
	defer tradeProcessor.Stop()

	// Market data gateway with a background snapshot refresh
	marketClient := market.NewClient(market.Config{
		Currency: getEnv("MARKET_CURRENCY", "inr"),
	})
	refreshInterval := 60 * time.Second
	if v := os.Getenv("MARKET_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			refreshInterval = d
		}
	}
	go func() {
		marketClient.Refresh(context.Background(), 10)
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			marketClient.Refresh(context.Background(), 10)
		}
	}()

	// Email verification
	verifyService := verify.New(verify.NewMemoryStore(), mailer.NewLog(), verify.Config{
		AllowTestBypass: getEnv("OTP_ALLOW_TEST_BYPASS", "false") == "true",
		TestBypassCode:  getEnv("OTP_TEST_BYPASS_CODE", "123456"),
	})

	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	api := handlers.NewAPI(ledgers, tradeProcessor, marketClient, verifyService, users)
	router := api.Router()

	// Get port from environment or default
	port := getEnv("PORT", "8080")

	log.Println("🚀 Server starting on http://localhost:" + port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// Helper function to get environment variable with default
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
