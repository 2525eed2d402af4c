package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	sq "github.com/Masterminds/squirrel"
	"github.com/pandodao/launchpad/core"
	"github.com/tsenart/nap"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func New(db *nap.DB) core.BalanceStore {
	return &balanceStore{db: db}
}

type balanceStore struct {
	db *nap.DB
}

func (s *balanceStore) Find(ctx context.Context, userID, assetID string) (*core.Balance, error) {
	b := psql.Select("amount").
		From("balances").
		Where(sq.Eq{"user_id": userID, "asset_id": assetID})
	stmt, args := b.MustSql()
	row := s.db.QueryRowContext(ctx, stmt, args...)

	balance := &core.Balance{
		UserID:  userID,
		AssetID: assetID,
		Amount:  big.NewInt(0),
	}

	var amount string
	if err := row.Scan(&amount); err != nil {
		// an absent row is a zero balance, not an error
		if errors.Is(err, sql.ErrNoRows) {
			return balance, nil
		}

		return nil, err
	}

	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("balance: malformed numeric %q", amount)
	}

	balance.Amount = v
	return balance, nil
}

func (s *balanceStore) ListAsset(ctx context.Context, assetID string, limit int) ([]*core.Balance, error) {
	b := psql.Select("user_id", "asset_id", "amount").
		From("balances").
		Where("asset_id = ? AND amount > 0", assetID).
		OrderBy("amount DESC").
		Limit(uint64(limit))
	stmt, args := b.MustSql()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var balances []*core.Balance
	for rows.Next() {
		var (
			balance core.Balance
			amount  string
		)

		if err := rows.Scan(&balance.UserID, &balance.AssetID, &amount); err != nil {
			return nil, err
		}

		v, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, fmt.Errorf("balance: malformed numeric %q", amount)
		}

		balance.Amount = v
		balances = append(balances, &balance)
	}

	return balances, rows.Err()
}
