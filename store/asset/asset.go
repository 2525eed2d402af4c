package asset

import (
	"context"
	"database/sql"
	"math/big"
	"time"

	sq "github.com/Masterminds/squirrel"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pandodao/generic"
	"github.com/pandodao/launchpad/core"
	"github.com/pandodao/launchpad/store"
	"github.com/tsenart/nap"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func New(db *nap.DB) core.AssetStore {
	// only terminal (launched) assets are cached; trading assets mutate
	// on every trade
	launched, err := lru.New[string, *core.Asset](512)
	if err != nil {
		panic(err)
	}

	return &assetStore{
		db:       db,
		launched: launched,
	}
}

type assetStore struct {
	db       *nap.DB
	launched *lru.Cache[string, *core.Asset]
}

func (s *assetStore) Create(ctx context.Context, asset *core.Asset, creationFee, reserveMint *big.Int) error {
	tx := generic.Must(s.db.Begin())
	defer tx.Rollback()

	b := psql.Insert("assets").
		Columns("id", "creator", "name", "symbol", "description", "logo_url", "curve_supply", "funding_reserve", "launched", "created_at").
		Values(asset.ID, asset.Creator, asset.Name, asset.Symbol, asset.Description, asset.LogoURL, "0", "0", false, asset.CreatedAt)
	stmt, args := b.MustSql()
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return err
	}

	if reserveMint.Sign() > 0 {
		if err := creditBalance(ctx, tx, core.CustodyUserID, asset.ID, reserveMint); err != nil {
			return err
		}
	}

	if err := creditTreasury(ctx, tx, creationFee); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *assetStore) Find(ctx context.Context, id string) (*core.Asset, error) {
	if asset, ok := s.launched.Get(id); ok {
		return asset, nil
	}

	b := psql.Select(scanColumns...).From("assets").Where(sq.Eq{"id": id})
	stmt, args := b.MustSql()
	row := s.db.QueryRowContext(ctx, stmt, args...)

	var asset core.Asset
	if err := scanAsset(row, &asset); err != nil {
		return nil, err
	}

	if asset.Launched {
		s.launched.Add(id, &asset)
	}

	return &asset, nil
}

func (s *assetStore) List(ctx context.Context) ([]*core.Asset, error) {
	b := psql.Select(scanColumns...).From("assets").OrderBy("created_at")
	stmt, args := b.MustSql()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var assets []*core.Asset
	for rows.Next() {
		var asset core.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, err
		}

		assets = append(assets, &asset)
	}

	return assets, rows.Err()
}

func (s *assetStore) RecordBuy(ctx context.Context, asset *core.Asset, record *core.BuyRecord) error {
	supply := new(big.Int).Add(asset.CurveSupply, record.Quantity)
	reserve := new(big.Int).Add(asset.FundingReserve, record.Cost)

	tx := generic.Must(s.db.Begin())
	defer tx.Rollback()

	if err := updateLedger(ctx, tx, asset, supply, reserve); err != nil {
		return err
	}

	if err := creditBalance(ctx, tx, record.Buyer, record.AssetID, record.Quantity); err != nil {
		return err
	}

	if err := creditTreasury(ctx, tx, record.Fee); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	asset.CurveSupply = supply
	asset.FundingReserve = reserve
	return nil
}

func (s *assetStore) RecordSell(ctx context.Context, asset *core.Asset, record *core.SellRecord) error {
	supply := new(big.Int).Sub(asset.CurveSupply, record.Quantity)
	reserve := new(big.Int).Sub(asset.FundingReserve, record.Refund)
	if supply.Sign() < 0 || reserve.Sign() < 0 {
		return core.ErrInsufficientReserve
	}

	tx := generic.Must(s.db.Begin())
	defer tx.Rollback()

	if err := updateLedger(ctx, tx, asset, supply, reserve); err != nil {
		return err
	}

	if err := debitBalance(ctx, tx, record.Seller, record.AssetID, record.Quantity); err != nil {
		return err
	}

	if err := creditTreasury(ctx, tx, record.Fee); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	asset.CurveSupply = supply
	asset.FundingReserve = reserve
	return nil
}

func (s *assetStore) MarkLaunched(ctx context.Context, asset *core.Asset, listingFee *big.Int) error {
	now := time.Now()

	tx := generic.Must(s.db.Begin())
	defer tx.Rollback()

	b := psql.Update("assets").
		Set("funding_reserve", "0").
		Set("launched", true).
		Set("launched_at", now).
		Where("id = ? AND launched = FALSE AND curve_supply = ?", asset.ID, asset.CurveSupply.String())
	stmt, args := b.MustSql()
	r, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return err
	}

	if n := generic.Must(r.RowsAffected()); n == 0 {
		return store.ErrConcurrentUpdate
	}

	// the reserved allotment leaves engine custody for the pool
	if _, err := tx.ExecContext(ctx,
		"UPDATE balances SET amount = 0 WHERE user_id = $1 AND asset_id = $2",
		core.CustodyUserID, asset.ID,
	); err != nil {
		return err
	}

	if err := creditTreasury(ctx, tx, listingFee); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	asset.FundingReserve = big.NewInt(0)
	asset.Launched = true
	asset.LaunchedAt = now
	s.launched.Add(asset.ID, asset)
	return nil
}

// updateLedger rewrites supply and reserve guarded by the supply the
// caller read; a lost race surfaces as ErrConcurrentUpdate instead of a
// silent double apply.
func updateLedger(ctx context.Context, tx *sql.Tx, asset *core.Asset, supply, reserve *big.Int) error {
	b := psql.Update("assets").
		Set("curve_supply", supply.String()).
		Set("funding_reserve", reserve.String()).
		Where("id = ? AND launched = FALSE AND curve_supply = ?", asset.ID, asset.CurveSupply.String())
	stmt, args := b.MustSql()
	r, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return err
	}

	if n := generic.Must(r.RowsAffected()); n == 0 {
		return store.ErrConcurrentUpdate
	}

	return nil
}

func creditBalance(ctx context.Context, tx *sql.Tx, userID, assetID string, amount *big.Int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO balances (user_id, asset_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, asset_id) DO UPDATE
		SET amount = balances.amount + EXCLUDED.amount`,
		userID, assetID, amount.String(),
	)
	return err
}

func debitBalance(ctx context.Context, tx *sql.Tx, userID, assetID string, amount *big.Int) error {
	r, err := tx.ExecContext(ctx, `
		UPDATE balances SET amount = amount - $3
		WHERE user_id = $1 AND asset_id = $2 AND amount >= $3`,
		userID, assetID, amount.String(),
	)
	if err != nil {
		return err
	}

	if n := generic.Must(r.RowsAffected()); n == 0 {
		return core.ErrInsufficientBalance
	}

	return nil
}

func creditTreasury(ctx context.Context, tx *sql.Tx, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}

	_, err := tx.ExecContext(ctx,
		"UPDATE treasury SET balance = balance + $1, version = version + 1 WHERE id = 1",
		amount.String(),
	)
	return err
}
