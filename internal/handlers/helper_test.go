package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"coinsim/internal/ledger"
	"coinsim/internal/market"
	"coinsim/internal/store"
	"coinsim/internal/verify"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// captureSender stands in for the mailer and records issued codes.
type captureSender struct {
	codes map[string]string
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: make(map[string]string)}
}

func (c *captureSender) SendCode(email, code string) error {
	c.codes[email] = code
	return nil
}

type testEnv struct {
	api    *API
	router *gin.Engine
	store  *store.Memory
	sender *captureSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	ledgers := ledger.NewManager(mem)

	tp := NewTradeProcessor(5, ledgers)
	tp.Start()
	t.Cleanup(tp.Stop)

	// Market client pointing at a dead endpoint; handlers under test only
	// use the (empty) cache.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	mkt := market.NewClient(market.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})

	sender := newCaptureSender()
	vrf := verify.New(verify.NewMemoryStore(), sender, verify.Config{})

	api := NewAPI(ledgers, tp, mkt, vrf, mem)
	return &testEnv{
		api:    api,
		router: api.Router(),
		store:  mem,
		sender: sender,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}
