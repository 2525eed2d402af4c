package core

import (
	"context"
	"math/big"
	"time"
)

// CustodyUserID holds the liquidity reserved token allotment between
// creation and graduation.
const CustodyUserID = "launchpad:custody"

// Asset is one bonding curve backed issuance. CurveSupply is the Q18
// quantity minted through curve buys so far; FundingReserve is the native
// currency held for the asset net of fees. Both are frozen forever once
// Launched flips true.
type Asset struct {
	ID          string    `json:"id,omitempty"`
	Creator     string    `json:"creator,omitempty"`
	Name        string    `json:"name,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`

	CurveSupply    *big.Int  `json:"curve_supply,omitempty"`
	FundingReserve *big.Int  `json:"funding_reserve,omitempty"`
	Launched       bool      `json:"launched,omitempty"`
	LaunchedAt     time.Time `json:"launched_at,omitempty"`
}

// BuyRecord is the effect set of one successful buy: Quantity minted to
// Buyer, Cost credited to the funding reserve, Fee credited to the
// treasury. Applied as a single transaction.
type BuyRecord struct {
	AssetID  string
	Buyer    string
	Quantity *big.Int
	Cost     *big.Int
	Fee      *big.Int
}

// SellRecord is the effect set of one successful sell: Quantity burned
// from Seller, the gross Refund debited from the funding reserve, Fee kept
// by the treasury. The seller is owed Refund minus Fee.
type SellRecord struct {
	AssetID  string
	Seller   string
	Quantity *big.Int
	Refund   *big.Int
	Fee      *big.Int
}

// AssetStore is the asset ledger. RecordBuy, RecordSell and MarkLaunched
// are the only write paths to CurveSupply and FundingReserve; each applies
// all of its effects atomically or none of them, guarded against
// interleaved writers by the supply the caller read. On success the
// in-memory asset passed in is updated to the stored state.
type AssetStore interface {
	// Create stores a new asset, credits the creation fee to the
	// treasury and mints the liquidity reserved allotment to the
	// engine's custody balance, in one transaction.
	Create(ctx context.Context, asset *Asset, creationFee, reserveMint *big.Int) error
	Find(ctx context.Context, id string) (*Asset, error)
	List(ctx context.Context) ([]*Asset, error)
	RecordBuy(ctx context.Context, asset *Asset, record *BuyRecord) error
	RecordSell(ctx context.Context, asset *Asset, record *SellRecord) error
	MarkLaunched(ctx context.Context, asset *Asset, listingFee *big.Int) error
}
