package core

import (
	"context"
	"math/big"
	"time"
)

type EventType uint8

const (
	_ EventType = iota
	EventCreated
	EventBought
	EventSold
	EventLaunched
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "Created"
	case EventBought:
		return "Bought"
	case EventSold:
		return "Sold"
	case EventLaunched:
		return "Launched"
	default:
		return "Unknown"
	}
}

// Event is what the engine emits for the off-chain analytics consumer.
// Quantity is Q18 tokens, Amount and Fee native smallest units; fields not
// meaningful for a given type stay zero.
type Event struct {
	ID        string    `json:"id,omitempty"`
	Type      EventType `json:"type,omitempty"`
	AssetID   string    `json:"asset_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Quantity  *big.Int  `json:"quantity,omitempty"`
	Amount    *big.Int  `json:"amount,omitempty"`
	Fee       *big.Int  `json:"fee,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// EventBus decouples the engine from the analytics journal. Publish never
// blocks the publishing call; a saturated bus drops, since engine
// correctness must not depend on the consumer.
type EventBus interface {
	Publish(event *Event)
	Subscribe() <-chan *Event
}

// TradeStore persists emitted events for trade history queries.
type TradeStore interface {
	Save(ctx context.Context, events []*Event) error
	ListAsset(ctx context.Context, assetID string, limit int) ([]*Event, error)
}
