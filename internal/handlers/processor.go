package handlers

import (
	"errors"
	"log"
	"sync"

	"coinsim/internal/ledger"
	"coinsim/internal/models"
)

// TradeResult represents the outcome of a trade operation. Persisted is
// false when the in-memory mutation applied but the durable write failed.
type TradeResult struct {
	TransactionID string
	Success       bool
	Persisted     bool
	Error         string
	Err           error
	Total         float64
}

// tradeJob is one queued buy or sell with a channel to send the result back.
type tradeJob struct {
	kind     models.TradeKind
	buy      models.BuyRequest
	sell     models.SellRequest
	resultCh chan TradeResult
}

// TradeProcessor handles concurrent trade processing through a worker pool.
// Trades for the same user serialize on that user's ledger, so workers never
// step on each other.
type TradeProcessor struct {
	workers    int
	tradeQueue chan tradeJob
	stopCh     chan struct{}
	wg         sync.WaitGroup
	ledgers    *ledger.Manager
}

// NewTradeProcessor creates a new trade processor with a worker pool.
func NewTradeProcessor(workers int, ledgers *ledger.Manager) *TradeProcessor {
	return &TradeProcessor{
		workers:    workers,
		tradeQueue: make(chan tradeJob, 100),
		stopCh:     make(chan struct{}),
		ledgers:    ledgers,
	}
}

// Start starts the worker pool.
func (tp *TradeProcessor) Start() {
	for i := 0; i < tp.workers; i++ {
		tp.wg.Add(1)
		go tp.worker(i)
	}
	log.Printf("✅ Started %d trade workers", tp.workers)
}

// Stop gracefully stops all workers.
func (tp *TradeProcessor) Stop() {
	close(tp.stopCh)
	tp.wg.Wait()
	log.Println("Trade processor stopped")
}

func (tp *TradeProcessor) worker(id int) {
	defer tp.wg.Done()

	for {
		select {
		case <-tp.stopCh:
			return

		case job := <-tp.tradeQueue:
			job.resultCh <- tp.process(job)
		}
	}
}

func (tp *TradeProcessor) process(job tradeJob) TradeResult {
	userID := job.buy.UserID
	if job.kind == models.TradeSell {
		userID = job.sell.UserID
	}

	l, err := tp.ledgers.Get(userID)
	if err != nil {
		return TradeResult{Error: "account unavailable", Err: err}
	}

	var tx models.Transaction
	switch job.kind {
	case models.TradeBuy:
		tx, err = l.Buy(job.buy.Symbol, job.buy.Name, job.buy.Amount, job.buy.Price)
	case models.TradeSell:
		tx, err = l.Sell(job.sell.Symbol, job.sell.Amount, job.sell.Price)
	}

	if errors.Is(err, ledger.ErrPersistenceUnavailable) {
		// Mutation applied in memory; surface the gap instead of hiding it.
		log.Printf("trade %s for user %s applied but not persisted: %v", tx.ID, userID, err)
		return TradeResult{
			TransactionID: tx.ID,
			Success:       true,
			Persisted:     false,
			Err:           err,
			Total:         tx.Total,
		}
	}
	if err != nil {
		return TradeResult{Error: err.Error(), Err: err}
	}

	return TradeResult{
		TransactionID: tx.ID,
		Success:       true,
		Persisted:     true,
		Total:         tx.Total,
	}
}

// SubmitBuy queues a buy and waits for the result.
func (tp *TradeProcessor) SubmitBuy(req models.BuyRequest) TradeResult {
	return tp.submit(tradeJob{kind: models.TradeBuy, buy: req})
}

// SubmitSell queues a sell and waits for the result.
func (tp *TradeProcessor) SubmitSell(req models.SellRequest) TradeResult {
	return tp.submit(tradeJob{kind: models.TradeSell, sell: req})
}

func (tp *TradeProcessor) submit(job tradeJob) TradeResult {
	job.resultCh = make(chan TradeResult)
	tp.tradeQueue <- job
	return <-job.resultCh
}
