package core

import (
	"context"
	"math/big"
)

// TreasuryStore is the process wide platform revenue accumulator: creation
// fees, trading fees and listing fees all land here. Credits happen inside
// the asset ledger's transactions; Withdraw records the payout target and
// zeroes the balance.
type TreasuryStore interface {
	Balance(ctx context.Context) (*big.Int, error)
	Withdraw(ctx context.Context, to string) (*big.Int, error)
}
