package core

import (
	"context"
	"math/big"
)

// CreateAssetInput carries the immutable metadata of a new issuance plus
// the creation fee payment. TraceID makes creation idempotent.
type CreateAssetInput struct {
	TraceID     string
	Creator     string
	Name        string
	Symbol      string
	Description string
	LogoURL     string
	Payment     *big.Int
}

// BuyResult reports what a buy actually did: Quantity is the Q18 amount
// minted (a partial fill when the request exceeded remaining curve
// supply), Cost the pre-fee charge, Refund the unused payment returned to
// the caller fee free.
type BuyResult struct {
	Quantity *big.Int `json:"quantity"`
	Cost     *big.Int `json:"cost"`
	Fee      *big.Int `json:"fee"`
	Refund   *big.Int `json:"refund"`
	Launched bool     `json:"launched,omitempty"`
}

// SellResult reports a sell: Refund is the gross curve refund, Payout what
// the seller receives after the fee.
type SellResult struct {
	Quantity *big.Int `json:"quantity"`
	Refund   *big.Int `json:"refund"`
	Fee      *big.Int `json:"fee"`
	Payout   *big.Int `json:"payout"`
}

// ExchangeService is the engine's public surface. Quantities are Q18 token
// amounts, payments native smallest units. Calls on the same asset are
// strictly serialized and re-entrant invocation is rejected.
type ExchangeService interface {
	CreateAsset(ctx context.Context, input CreateAssetInput) (*Asset, error)
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)

	Buy(ctx context.Context, assetID, actor string, quantity, payment *big.Int) (*BuyResult, error)
	BuyExactIn(ctx context.Context, assetID, actor string, payment *big.Int) (*BuyResult, error)
	Sell(ctx context.Context, assetID, actor string, quantity *big.Int) (*SellResult, error)

	QuoteCost(ctx context.Context, assetID string, quantity *big.Int) (*big.Int, error)
	QuoteRefund(ctx context.Context, assetID string, quantity *big.Int) (*big.Int, error)
	QuoteTokensForPayment(ctx context.Context, assetID string, payment *big.Int) (*big.Int, error)

	WithdrawFees(ctx context.Context, operator, to string) (*big.Int, error)
}

// LaunchService graduates an asset: it hands the funding reserve plus the
// reserved token allotment to the liquidity provider and latches the asset
// against further curve trading.
type LaunchService interface {
	Launch(ctx context.Context, asset *Asset) error
}
