package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/pandodao/launchpad/core"
	"github.com/pandodao/launchpad/curve"
)

type Config struct {
	// ListingFee is taken out of the funding reserve at graduation, in
	// native smallest units; skipped when the reserve does not exceed it.
	ListingFee string `valid:"required"`

	// LiquidityReserve is the whole unit token allotment deposited next
	// to the reserve. Must match the exchange configuration.
	LiquidityReserve int64 `valid:"required"`
}

func New(
	assets core.AssetStore,
	provider core.LiquidityProvider,
	bus core.EventBus,
	logger *slog.Logger,
	cfg Config,
) (core.LaunchService, error) {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	listingFee, ok := new(big.Int).SetString(cfg.ListingFee, 10)
	if !ok || listingFee.Sign() < 0 {
		return nil, fmt.Errorf("launch: invalid listing fee %q", cfg.ListingFee)
	}

	return &service{
		assets:     assets,
		provider:   provider,
		bus:        bus,
		logger:     logger.With("service", "launch"),
		listingFee: listingFee,
		tokens:     new(big.Int).Mul(big.NewInt(cfg.LiquidityReserve), curve.One),
	}, nil
}

type service struct {
	assets   core.AssetStore
	provider core.LiquidityProvider
	bus      core.EventBus
	logger   *slog.Logger

	listingFee *big.Int
	tokens     *big.Int
}

// Launch moves the funding reserve plus the reserved token allotment into
// the external pool, permanently locks the received position and latches
// the asset. The ledger write happens only after every provider step
// succeeded, so a provider failure leaves the asset trading with its
// reserve intact and a later buy retries the whole sequence.
func (s *service) Launch(ctx context.Context, asset *core.Asset) error {
	if asset.Launched {
		return core.ErrAlreadyLaunched
	}

	logger := s.logger.With("asset", asset.ID)

	lpAmount := new(big.Int).Set(asset.FundingReserve)
	fee := big.NewInt(0)
	if s.listingFee.Sign() > 0 && lpAmount.Cmp(s.listingFee) > 0 {
		fee = s.listingFee
		lpAmount.Sub(lpAmount, fee)
	}

	poolID, err := s.provider.EnsurePool(ctx, asset.ID)
	if err != nil {
		logger.Error("provider.EnsurePool", "err", err)
		return errors.Join(core.ErrTransferFailed, err)
	}

	positionID, err := s.provider.Deposit(ctx, poolID, lpAmount, s.tokens)
	if err != nil {
		logger.Error("provider.Deposit", "err", err)
		return errors.Join(core.ErrTransferFailed, err)
	}

	if err := s.provider.LockPosition(ctx, poolID, positionID); err != nil {
		logger.Error("provider.LockPosition", "err", err)
		return errors.Join(core.ErrTransferFailed, err)
	}

	if err := s.assets.MarkLaunched(ctx, asset, fee); err != nil {
		logger.Error("assets.MarkLaunched", "err", err)
		return err
	}

	logger.Info("asset launched", "pool", poolID, "contributed", lpAmount, "listing_fee", fee)

	s.bus.Publish(&core.Event{
		ID:        uuid.NewString(),
		Type:      core.EventLaunched,
		AssetID:   asset.ID,
		Actor:     asset.Creator,
		Quantity:  s.tokens,
		Amount:    lpAmount,
		Fee:       fee,
		CreatedAt: asset.LaunchedAt,
	})

	return nil
}
