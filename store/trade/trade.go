package trade

import (
	"context"
	"fmt"
	"math/big"

	sq "github.com/Masterminds/squirrel"
	"github.com/pandodao/generic"
	"github.com/pandodao/launchpad/core"
	"github.com/tsenart/nap"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func New(db *nap.DB) core.TradeStore {
	return &tradeStore{db: db}
}

type tradeStore struct {
	db *nap.DB
}

var columns = []string{"id", "type", "asset_id", "actor", "quantity", "amount", "fee", "created_at"}

func (s *tradeStore) Save(ctx context.Context, events []*core.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx := generic.Must(s.db.Begin())
	defer tx.Rollback()

	for _, event := range events {
		b := psql.Insert("trades").
			Columns(columns...).
			Values(
				event.ID,
				uint8(event.Type),
				event.AssetID,
				event.Actor,
				numeric(event.Quantity),
				numeric(event.Amount),
				numeric(event.Fee),
				event.CreatedAt,
			).
			Suffix("ON CONFLICT (id) DO NOTHING")
		stmt, args := b.MustSql()
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *tradeStore) ListAsset(ctx context.Context, assetID string, limit int) ([]*core.Event, error) {
	b := psql.Select(columns...).
		From("trades").
		Where(sq.Eq{"asset_id": assetID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	stmt, args := b.MustSql()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var events []*core.Event
	for rows.Next() {
		var (
			event    core.Event
			kind     uint8
			quantity string
			amount   string
			fee      string
		)

		if err := rows.Scan(
			&event.ID,
			&kind,
			&event.AssetID,
			&event.Actor,
			&quantity,
			&amount,
			&fee,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}

		event.Type = core.EventType(kind)
		if event.Quantity, err = parseNumeric(quantity); err != nil {
			return nil, err
		}

		if event.Amount, err = parseNumeric(amount); err != nil {
			return nil, err
		}

		if event.Fee, err = parseNumeric(fee); err != nil {
			return nil, err
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}

func numeric(v *big.Int) string {
	if v == nil {
		return "0"
	}

	return v.String()
}

func parseNumeric(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("trade: malformed numeric %q", s)
	}

	return v, nil
}
