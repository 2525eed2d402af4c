package treasury

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pandodao/generic"
	"github.com/pandodao/launchpad/core"
	"github.com/tsenart/nap"
)

func New(db *nap.DB) core.TreasuryStore {
	return &treasuryStore{db: db}
}

type treasuryStore struct {
	db *nap.DB
}

func (s *treasuryStore) Balance(ctx context.Context) (*big.Int, error) {
	row := s.db.QueryRowContext(ctx, "SELECT balance FROM treasury WHERE id = 1")

	var balance string
	if err := row.Scan(&balance); err != nil {
		return nil, err
	}

	v, ok := new(big.Int).SetString(balance, 10)
	if !ok {
		return nil, fmt.Errorf("treasury: malformed numeric %q", balance)
	}

	return v, nil
}

// Withdraw zeroes the accumulator and journals the payout, atomically.
func (s *treasuryStore) Withdraw(ctx context.Context, to string) (*big.Int, error) {
	tx := generic.Must(s.db.Begin())
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT balance FROM treasury WHERE id = 1 FOR UPDATE")

	var balance string
	if err := row.Scan(&balance); err != nil {
		return nil, err
	}

	amount, ok := new(big.Int).SetString(balance, 10)
	if !ok {
		return nil, fmt.Errorf("treasury: malformed numeric %q", balance)
	}

	if amount.Sign() == 0 {
		return amount, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE treasury SET balance = 0, version = version + 1 WHERE id = 1",
	); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO treasury_payouts (receiver, amount) VALUES ($1, $2)",
		to, amount.String(),
	); err != nil {
		return nil, err
	}

	return amount, tx.Commit()
}
