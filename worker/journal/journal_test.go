package journal

import (
	"context"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pandodao/launchpad/core"
	"github.com/pandodao/launchpad/service/event"
)

type memTrades struct {
	mux    sync.Mutex
	events map[string]*core.Event
}

func (m *memTrades) Save(ctx context.Context, events []*core.Event) error {
	m.mux.Lock()
	defer m.mux.Unlock()

	for _, e := range events {
		m.events[e.ID] = e
	}

	return nil
}

func (m *memTrades) ListAsset(ctx context.Context, assetID string, limit int) ([]*core.Event, error) {
	return nil, nil
}

func (m *memTrades) count() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	return len(m.events)
}

func TestJournalDrainsBus(t *testing.T) {
	bus := event.New(64)
	trades := &memTrades{events: map[string]*core.Event{}}
	logger := slog.New(slog.NewTextHandler(&testWriter{t}, nil))

	w := New(bus, trades, logger, Config{
		BatchSize:     4,
		FlushInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	duplicate := uuid.NewString()
	for i := 0; i < 10; i++ {
		bus.Publish(&core.Event{
			ID:       uuid.NewString(),
			Type:     core.EventBought,
			AssetID:  "asset-1",
			Actor:    "bob",
			Quantity: big.NewInt(1),
			Amount:   big.NewInt(1),
			Fee:      big.NewInt(0),
		})
	}

	bus.Publish(&core.Event{ID: duplicate, Type: core.EventSold})

	deadline := time.After(time.Second)
	for trades.count() < 11 {
		select {
		case <-deadline:
			t.Fatalf("journaled %d events, want 11", trades.count())
		case <-time.After(5 * time.Millisecond):
		}
	}

	// a replayed event must not be handed to the store twice
	bus.Publish(&core.Event{ID: duplicate, Type: core.EventSold})
	time.Sleep(50 * time.Millisecond)

	if trades.count() != 11 {
		t.Fatalf("journaled %d events, want 11", trades.count())
	}

	cancel()
	<-done
}

type testWriter struct{ t *testing.T }

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
