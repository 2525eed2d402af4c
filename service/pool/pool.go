package pool

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/google/uuid"
)

// Provider is an in-process constant product AMM implementing
// core.LiquidityProvider. One pool per asset, liquidity receipts measured
// as √(x·y), and locked positions are gone for good.
type Provider struct {
	logger *slog.Logger

	mux   sync.Mutex
	pools map[string]*Pool
}

type Pool struct {
	ID      string
	AssetID string

	ReserveCurrency *big.Int
	ReserveToken    *big.Int

	positions map[string]*position
}

type position struct {
	liquidity *big.Int
	locked    bool
}

func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger.With("service", "pool"),
		pools:  map[string]*Pool{},
	}
}

func (p *Provider) EnsurePool(ctx context.Context, assetID string) (string, error) {
	p.mux.Lock()
	defer p.mux.Unlock()

	if pool, ok := p.pools[assetID]; ok {
		return pool.ID, nil
	}

	pool := &Pool{
		ID:              uuid.NewString(),
		AssetID:         assetID,
		ReserveCurrency: big.NewInt(0),
		ReserveToken:    big.NewInt(0),
		positions:       map[string]*position{},
	}

	p.pools[assetID] = pool
	p.logger.Info("pool created", "asset", assetID, "pool", pool.ID)
	return pool.ID, nil
}

func (p *Provider) Deposit(ctx context.Context, poolID string, currencyAmount, tokenAmount *big.Int) (string, error) {
	if currencyAmount == nil || currencyAmount.Sign() <= 0 || tokenAmount == nil || tokenAmount.Sign() <= 0 {
		return "", fmt.Errorf("pool: deposit amounts must be positive")
	}

	p.mux.Lock()
	defer p.mux.Unlock()

	pool, err := p.findPool(poolID)
	if err != nil {
		return "", err
	}

	pool.ReserveCurrency.Add(pool.ReserveCurrency, currencyAmount)
	pool.ReserveToken.Add(pool.ReserveToken, tokenAmount)

	k := new(big.Int).Mul(currencyAmount, tokenAmount)
	pos := &position{liquidity: k.Sqrt(k)}

	id := uuid.NewString()
	pool.positions[id] = pos

	p.logger.Info("liquidity deposited",
		"pool", poolID,
		"currency", currencyAmount,
		"tokens", tokenAmount,
		"liquidity", pos.liquidity,
	)

	return id, nil
}

func (p *Provider) LockPosition(ctx context.Context, poolID, positionID string) error {
	p.mux.Lock()
	defer p.mux.Unlock()

	pool, err := p.findPool(poolID)
	if err != nil {
		return err
	}

	pos, ok := pool.positions[positionID]
	if !ok {
		return fmt.Errorf("pool: unknown position %s", positionID)
	}

	pos.locked = true
	return nil
}

// Withdraw removes a position's share of the reserves. Locked positions
// refuse forever, whoever asks.
func (p *Provider) Withdraw(ctx context.Context, poolID, positionID string) (currency, tokens *big.Int, err error) {
	p.mux.Lock()
	defer p.mux.Unlock()

	pool, err := p.findPool(poolID)
	if err != nil {
		return nil, nil, err
	}

	pos, ok := pool.positions[positionID]
	if !ok {
		return nil, nil, fmt.Errorf("pool: unknown position %s", positionID)
	}

	if pos.locked {
		return nil, nil, fmt.Errorf("pool: position %s is locked", positionID)
	}

	total := pool.totalLiquidity()
	currency = proportion(pool.ReserveCurrency, pos.liquidity, total)
	tokens = proportion(pool.ReserveToken, pos.liquidity, total)

	pool.ReserveCurrency.Sub(pool.ReserveCurrency, currency)
	pool.ReserveToken.Sub(pool.ReserveToken, tokens)
	delete(pool.positions, positionID)

	return currency, tokens, nil
}

// Find returns a snapshot of the pool backing an asset.
func (p *Provider) Find(assetID string) (*Pool, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()

	pool, ok := p.pools[assetID]
	if !ok {
		return nil, false
	}

	return &Pool{
		ID:              pool.ID,
		AssetID:         pool.AssetID,
		ReserveCurrency: new(big.Int).Set(pool.ReserveCurrency),
		ReserveToken:    new(big.Int).Set(pool.ReserveToken),
	}, true
}

func (p *Provider) findPool(poolID string) (*Pool, error) {
	for _, pool := range p.pools {
		if pool.ID == poolID {
			return pool, nil
		}
	}

	return nil, fmt.Errorf("pool: unknown pool %s", poolID)
}

func (pool *Pool) totalLiquidity() *big.Int {
	total := big.NewInt(0)
	for _, pos := range pool.positions {
		total.Add(total, pos.liquidity)
	}

	return total
}

func proportion(reserve, share, total *big.Int) *big.Int {
	if total.Sign() == 0 {
		return big.NewInt(0)
	}

	v := new(big.Int).Mul(reserve, share)
	return v.Quo(v, total)
}
