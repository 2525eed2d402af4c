package core

import (
	"context"
	"math/big"
)

// LiquidityProvider is the external pool the engine hands reserves to at
// graduation. The graduation controller depends only on this capability,
// never on a concrete provider.
type LiquidityProvider interface {
	// EnsurePool returns the pool for the asset, creating it if absent.
	EnsurePool(ctx context.Context, assetID string) (string, error)

	// Deposit adds currency plus tokens to the pool and returns a
	// liquidity position receipt.
	Deposit(ctx context.Context, poolID string, currencyAmount, tokenAmount *big.Int) (string, error)

	// LockPosition permanently relinquishes a position. No party,
	// operator included, can withdraw it afterwards.
	LockPosition(ctx context.Context, poolID, positionID string) error
}
