package core

import (
	"context"
	"math/big"
)

// Balance is a holder's Q18 token balance for one asset.
type Balance struct {
	UserID  string   `json:"user_id,omitempty"`
	AssetID string   `json:"asset_id,omitempty"`
	Amount  *big.Int `json:"amount"`
}

// BalanceStore reads holder balances. Writes happen only inside the asset
// ledger's buy/sell transactions.
type BalanceStore interface {
	Find(ctx context.Context, userID, assetID string) (*Balance, error)
	ListAsset(ctx context.Context, assetID string, limit int) ([]*Balance, error)
}
