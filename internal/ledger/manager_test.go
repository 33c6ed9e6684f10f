package ledger

import (
	"sync"
	"testing"

	"coinsim/internal/store"
)

func TestManagerReturnsSameLedger(t *testing.T) {
	m := NewManager(store.NewMemory())

	first, err := m.Get("user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := m.Get("user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if first != second {
		t.Error("Expected the same ledger instance for the same user")
	}

	other, err := m.Get("user-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if other == first {
		t.Error("Expected distinct ledgers for distinct users")
	}
}

func TestManagerConcurrentGet(t *testing.T) {
	m := NewManager(store.NewMemory())

	var wg sync.WaitGroup
	ledgers := make([]*Ledger, 20)
	for i := range ledgers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := m.Get("user-1")
			if err != nil {
				t.Errorf("Get failed: %v", err)
				return
			}
			ledgers[i] = l
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(ledgers); i++ {
		if ledgers[i] != ledgers[0] {
			t.Fatal("Concurrent Get returned different instances")
		}
	}
}

func TestManagerDropRehydrates(t *testing.T) {
	mem := store.NewMemory()
	m := NewManager(mem)

	l, err := m.Get("user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := l.Buy("BTC", "Bitcoin", 0.01, 1000); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}

	m.Drop("user-1")

	fresh, err := m.Get("user-1")
	if err != nil {
		t.Fatalf("Get after drop failed: %v", err)
	}
	if fresh == l {
		t.Error("Expected a new ledger instance after Drop")
	}

	// State came back from the store, not from the old instance.
	state := fresh.Snapshot()
	if len(state.Holdings) != 1 || state.Holdings[0].Symbol != "BTC" {
		t.Errorf("Expected rehydrated holding, got %+v", state.Holdings)
	}
}
