package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/pandodao/launchpad/core"
	"github.com/pandodao/launchpad/curve"
	"github.com/pandodao/launchpad/store"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	// InitialPrice and Slope define the curve; native smallest units per
	// whole token and Q18 per whole token respectively.
	InitialPrice string `valid:"required"`
	Slope        string `valid:"required"`

	// FeeBps applies identically on buy (added on top of cost) and sell
	// (deducted from the refund).
	FeeBps int64

	// CreationFee is the flat charge for CreateAsset, in native smallest
	// units.
	CreationFee string `valid:"required"`

	// FundingGoal is the reserve level that triggers graduation.
	FundingGoal string `valid:"required"`

	// CurveSupplyCap and LiquidityReserve are whole token units; the
	// reserve portion is minted to engine custody at creation and never
	// sold on the curve.
	CurveSupplyCap   int64 `valid:"required"`
	LiquidityReserve int64 `valid:"required"`

	// Operator may withdraw accumulated protocol fees.
	Operator string `valid:"required"`
}

func New(
	assets core.AssetStore,
	balances core.BalanceStore,
	treasury core.TreasuryStore,
	launcher core.LaunchService,
	bus core.EventBus,
	logger *slog.Logger,
	cfg Config,
) (core.ExchangeService, error) {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	initialPrice, err := parseAmount(cfg.InitialPrice)
	if err != nil {
		return nil, fmt.Errorf("initial price: %w", err)
	}

	slope, err := parseAmount(cfg.Slope)
	if err != nil {
		return nil, fmt.Errorf("slope: %w", err)
	}

	c, err := curve.New(initialPrice, slope)
	if err != nil {
		return nil, err
	}

	creationFee, err := parseAmount(cfg.CreationFee)
	if err != nil {
		return nil, fmt.Errorf("creation fee: %w", err)
	}

	fundingGoal, err := parseAmount(cfg.FundingGoal)
	if err != nil {
		return nil, fmt.Errorf("funding goal: %w", err)
	}

	if cfg.FeeBps < 0 || cfg.FeeBps >= curve.FeeDenominator {
		return nil, fmt.Errorf("fee bps %d out of range", cfg.FeeBps)
	}

	return &service{
		assets:      assets,
		balances:    balances,
		treasury:    treasury,
		launcher:    launcher,
		bus:         bus,
		logger:      logger.With("service", "exchange"),
		curve:       c,
		feeBps:      cfg.FeeBps,
		creationFee: creationFee,
		fundingGoal: fundingGoal,
		curveCap:    new(big.Int).Mul(big.NewInt(cfg.CurveSupplyCap), curve.One),
		reserveMint: new(big.Int).Mul(big.NewInt(cfg.LiquidityReserve), curve.One),
		operator:    cfg.Operator,
		inflight:    map[string]bool{},
	}, nil
}

type service struct {
	assets   core.AssetStore
	balances core.BalanceStore
	treasury core.TreasuryStore
	launcher core.LaunchService
	bus      core.EventBus
	logger   *slog.Logger

	curve       *curve.Curve
	feeBps      int64
	creationFee *big.Int
	fundingGoal *big.Int
	curveCap    *big.Int
	reserveMint *big.Int
	operator    string

	sf  singleflight.Group
	mux sync.Mutex
	// inflight marks assets with a call in progress. Set before any
	// external side effect, cleared unconditionally on exit; a second
	// entry while set is a re-entrant call and is rejected outright.
	inflight map[string]bool
}

func (s *service) begin(assetID string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.inflight[assetID] {
		return core.ErrReentrantCall
	}

	s.inflight[assetID] = true
	return nil
}

func (s *service) end(assetID string) {
	s.mux.Lock()
	delete(s.inflight, assetID)
	s.mux.Unlock()
}

func (s *service) CreateAsset(ctx context.Context, input core.CreateAssetInput) (*core.Asset, error) {
	if input.Name == "" || input.Symbol == "" || input.Creator == "" {
		return nil, fmt.Errorf("exchange: name, symbol and creator are required")
	}

	if input.LogoURL != "" && !govalidator.IsRequestURL(input.LogoURL) {
		return nil, fmt.Errorf("exchange: invalid logo url")
	}

	if input.Payment == nil || input.Payment.Cmp(s.creationFee) < 0 {
		return nil, core.ErrInsufficientPayment
	}

	if input.TraceID == "" {
		input.TraceID = uuid.NewString()
	}

	// the asset id is derived from the trace so retried creations land on
	// the same row
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("asset:"+input.TraceID)).String()

	v, err, _ := s.sf.Do(input.TraceID, func() (interface{}, error) {
		if asset, err := s.assets.Find(ctx, id); err == nil {
			return asset, nil
		} else if !store.IsErrNotFound(err) {
			return nil, err
		}

		asset := &core.Asset{
			ID:             id,
			Creator:        input.Creator,
			Name:           input.Name,
			Symbol:         input.Symbol,
			Description:    input.Description,
			LogoURL:        input.LogoURL,
			CreatedAt:      time.Now(),
			CurveSupply:    big.NewInt(0),
			FundingReserve: big.NewInt(0),
		}

		if err := s.assets.Create(ctx, asset, s.creationFee, s.reserveMint); err != nil {
			s.logger.Error("assets.Create", "err", err)
			return nil, err
		}

		s.publish(&core.Event{
			Type:    core.EventCreated,
			AssetID: asset.ID,
			Actor:   input.Creator,
			Fee:     s.creationFee,
		})

		return asset, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*core.Asset), nil
}

func (s *service) GetAsset(ctx context.Context, id string) (*core.Asset, error) {
	return s.findAsset(ctx, id)
}

func (s *service) ListAssets(ctx context.Context) ([]*core.Asset, error) {
	return s.assets.List(ctx)
}

func (s *service) Buy(ctx context.Context, assetID, actor string, quantity, payment *big.Int) (*core.BuyResult, error) {
	if actor == "" || quantity == nil || quantity.Sign() <= 0 || payment == nil || payment.Sign() < 0 {
		return nil, fmt.Errorf("exchange: invalid buy arguments")
	}

	if err := s.begin(assetID); err != nil {
		return nil, err
	}
	defer s.end(assetID)

	asset, err := s.findTrading(ctx, assetID)
	if err != nil {
		return nil, err
	}

	return s.executeBuy(ctx, asset, actor, quantity, payment)
}

func (s *service) BuyExactIn(ctx context.Context, assetID, actor string, payment *big.Int) (*core.BuyResult, error) {
	if actor == "" || payment == nil || payment.Sign() <= 0 {
		return nil, fmt.Errorf("exchange: invalid buy arguments")
	}

	if err := s.begin(assetID); err != nil {
		return nil, err
	}
	defer s.end(assetID)

	asset, err := s.findTrading(ctx, assetID)
	if err != nil {
		return nil, err
	}

	available := new(big.Int).Sub(s.curveCap, asset.CurveSupply)
	units := s.curve.MaxPurchasable(asset.CurveSupply, available, s.netSpendLimit(payment))
	if units.Sign() == 0 {
		return nil, core.ErrInsufficientPayment
	}

	quantity := new(big.Int).Mul(units, curve.One)
	return s.executeBuy(ctx, asset, actor, quantity, payment)
}

// executeBuy fills min(quantity, remaining curve supply), charges the fee
// on the actual cost only and returns the unused payment fee free. The
// in-flight guard is already held by the caller.
func (s *service) executeBuy(ctx context.Context, asset *core.Asset, actor string, quantity, payment *big.Int) (*core.BuyResult, error) {
	available := new(big.Int).Sub(s.curveCap, asset.CurveSupply)
	fill := quantity
	if fill.Cmp(available) > 0 {
		fill = available
	}

	cost, err := s.curve.Cost(asset.CurveSupply, fill)
	if err != nil {
		return nil, core.ErrOverflow
	}

	fee := curve.FeeOn(cost, s.feeBps)
	required := new(big.Int).Add(cost, fee)
	if payment.Cmp(required) < 0 {
		return nil, core.ErrInsufficientPayment
	}

	if fill.Sign() > 0 {
		record := &core.BuyRecord{
			AssetID:  asset.ID,
			Buyer:    actor,
			Quantity: fill,
			Cost:     cost,
			Fee:      fee,
		}

		if err := s.assets.RecordBuy(ctx, asset, record); err != nil {
			s.logger.Error("assets.RecordBuy", "asset", asset.ID, "err", err)
			return nil, err
		}

		s.publish(&core.Event{
			Type:     core.EventBought,
			AssetID:  asset.ID,
			Actor:    actor,
			Quantity: fill,
			Amount:   required,
			Fee:      fee,
		})
	}

	result := &core.BuyResult{
		Quantity: fill,
		Cost:     cost,
		Fee:      fee,
		Refund:   new(big.Int).Sub(payment, required),
	}

	if asset.FundingReserve.Cmp(s.fundingGoal) >= 0 || asset.CurveSupply.Cmp(s.curveCap) >= 0 {
		// graduation failure leaves the asset trading; the buy stands and
		// the next buy retries
		if err := s.launcher.Launch(ctx, asset); err != nil {
			s.logger.Warn("launch deferred", "asset", asset.ID, "err", err)
		}
	}

	result.Launched = asset.Launched
	return result, nil
}

func (s *service) Sell(ctx context.Context, assetID, actor string, quantity *big.Int) (*core.SellResult, error) {
	if actor == "" || quantity == nil || quantity.Sign() <= 0 {
		return nil, fmt.Errorf("exchange: invalid sell arguments")
	}

	if err := s.begin(assetID); err != nil {
		return nil, err
	}
	defer s.end(assetID)

	asset, err := s.findTrading(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if quantity.Cmp(asset.CurveSupply) > 0 {
		return nil, core.ErrInsufficientBalance
	}

	balance, err := s.balances.Find(ctx, actor, assetID)
	if err != nil {
		return nil, err
	}

	if balance.Amount.Cmp(quantity) < 0 {
		return nil, core.ErrInsufficientBalance
	}

	refund, err := s.curve.Refund(asset.CurveSupply, quantity)
	if err != nil {
		return nil, core.ErrOverflow
	}

	// fails closed: the reserve may never go negative
	if refund.Cmp(asset.FundingReserve) > 0 {
		return nil, core.ErrInsufficientReserve
	}

	fee := curve.FeeOn(refund, s.feeBps)

	record := &core.SellRecord{
		AssetID:  asset.ID,
		Seller:   actor,
		Quantity: quantity,
		Refund:   refund,
		Fee:      fee,
	}

	if err := s.assets.RecordSell(ctx, asset, record); err != nil {
		s.logger.Error("assets.RecordSell", "asset", asset.ID, "err", err)
		return nil, err
	}

	s.publish(&core.Event{
		Type:     core.EventSold,
		AssetID:  asset.ID,
		Actor:    actor,
		Quantity: quantity,
		Amount:   refund,
		Fee:      fee,
	})

	return &core.SellResult{
		Quantity: quantity,
		Refund:   refund,
		Fee:      fee,
		Payout:   new(big.Int).Sub(refund, fee),
	}, nil
}

func (s *service) QuoteCost(ctx context.Context, assetID string, quantity *big.Int) (*big.Int, error) {
	asset, err := s.findTrading(ctx, assetID)
	if err != nil {
		return nil, err
	}

	cost, err := s.curve.Cost(asset.CurveSupply, quantity)
	if err != nil {
		return nil, core.ErrOverflow
	}

	return cost, nil
}

func (s *service) QuoteRefund(ctx context.Context, assetID string, quantity *big.Int) (*big.Int, error) {
	asset, err := s.findTrading(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if quantity.Cmp(asset.CurveSupply) > 0 {
		return nil, core.ErrInsufficientBalance
	}

	refund, err := s.curve.Refund(asset.CurveSupply, quantity)
	if err != nil {
		return nil, core.ErrOverflow
	}

	return refund, nil
}

func (s *service) QuoteTokensForPayment(ctx context.Context, assetID string, payment *big.Int) (*big.Int, error) {
	asset, err := s.findTrading(ctx, assetID)
	if err != nil {
		return nil, err
	}

	available := new(big.Int).Sub(s.curveCap, asset.CurveSupply)
	units := s.curve.MaxPurchasable(asset.CurveSupply, available, s.netSpendLimit(payment))
	return new(big.Int).Mul(units, curve.One), nil
}

func (s *service) WithdrawFees(ctx context.Context, operator, to string) (*big.Int, error) {
	if operator != s.operator {
		return nil, core.ErrNotOperator
	}

	if to == "" {
		return nil, fmt.Errorf("exchange: withdraw target required")
	}

	amount, err := s.treasury.Withdraw(ctx, to)
	if err != nil {
		s.logger.Error("treasury.Withdraw", "err", err)
		return nil, err
	}

	s.logger.Info("protocol fees withdrawn", "to", to, "amount", amount)
	return amount, nil
}

// netSpendLimit strips the buy fee from a gross payment: the largest cost
// c with c + fee(c) ≤ payment.
func (s *service) netSpendLimit(payment *big.Int) *big.Int {
	limit := new(big.Int).Mul(payment, big.NewInt(curve.FeeDenominator))
	return limit.Quo(limit, big.NewInt(curve.FeeDenominator+s.feeBps))
}

func (s *service) findAsset(ctx context.Context, id string) (*core.Asset, error) {
	asset, err := s.assets.Find(ctx, id)
	if err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrUnknownAsset
		}

		return nil, err
	}

	return asset, nil
}

func (s *service) findTrading(ctx context.Context, id string) (*core.Asset, error) {
	asset, err := s.findAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if asset.Launched {
		return nil, core.ErrAlreadyLaunched
	}

	return asset, nil
}

func (s *service) publish(event *core.Event) {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()
	s.bus.Publish(event)
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	return v, nil
}
