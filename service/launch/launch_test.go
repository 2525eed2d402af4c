package launch

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/pandodao/launchpad/core"
	"github.com/pandodao/launchpad/curve"
	"github.com/pandodao/launchpad/service/event"
	"github.com/pandodao/launchpad/service/pool"
)

type markerStore struct {
	core.AssetStore

	calls int
	fee   *big.Int
}

func (m *markerStore) MarkLaunched(ctx context.Context, asset *core.Asset, listingFee *big.Int) error {
	m.calls++
	m.fee = listingFee
	asset.Launched = true
	asset.LaunchedAt = time.Now()
	asset.FundingReserve = big.NewInt(0)
	return nil
}

type brokenProvider struct {
	failEnsure  bool
	failDeposit bool
	failLock    bool
}

func (p *brokenProvider) EnsurePool(ctx context.Context, assetID string) (string, error) {
	if p.failEnsure {
		return "", errors.New("ensure down")
	}

	return "pool-1", nil
}

func (p *brokenProvider) Deposit(ctx context.Context, poolID string, currencyAmount, tokenAmount *big.Int) (string, error) {
	if p.failDeposit {
		return "", errors.New("deposit down")
	}

	return "position-1", nil
}

func (p *brokenProvider) LockPosition(ctx context.Context, poolID, positionID string) error {
	if p.failLock {
		return errors.New("lock down")
	}

	return nil
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(&testWriter{t}, nil))
}

type testWriter struct{ t *testing.T }

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func testAsset(reserve *big.Int) *core.Asset {
	return &core.Asset{
		ID:             "asset-1",
		Creator:        "alice",
		CurveSupply:    new(big.Int).Mul(big.NewInt(800_000), curve.One),
		FundingReserve: reserve,
	}
}

func TestLaunchSuccess(t *testing.T) {
	ctx := context.Background()
	store := &markerStore{}
	provider := pool.New(testLogger(t))
	bus := event.New(8)

	svc, err := New(store, provider, bus, testLogger(t), Config{
		ListingFee:       "1000000000000",
		LiquidityReserve: 200_000,
	})
	if err != nil {
		t.Fatal(err)
	}

	reserve := big.NewInt(500_000_000_000_000)
	asset := testAsset(new(big.Int).Set(reserve))

	if err := svc.Launch(ctx, asset); err != nil {
		t.Fatal(err)
	}

	if store.calls != 1 {
		t.Fatalf("ledger latched %d times, want 1", store.calls)
	}

	if want := big.NewInt(1_000_000_000_000); store.fee.Cmp(want) != 0 {
		t.Fatalf("listing fee %s, want %s", store.fee, want)
	}

	if !asset.Launched {
		t.Fatal("asset not launched")
	}

	p, ok := provider.Find(asset.ID)
	if !ok {
		t.Fatal("no pool for the asset")
	}

	wantCurrency := new(big.Int).Sub(reserve, store.fee)
	if p.ReserveCurrency.Cmp(wantCurrency) != 0 {
		t.Fatalf("pool currency %s, want %s", p.ReserveCurrency, wantCurrency)
	}

	wantTokens := new(big.Int).Mul(big.NewInt(200_000), curve.One)
	if p.ReserveToken.Cmp(wantTokens) != 0 {
		t.Fatalf("pool tokens %s, want %s", p.ReserveToken, wantTokens)
	}

	select {
	case e := <-bus.Subscribe():
		if e.Type != core.EventLaunched {
			t.Fatalf("event type %s, want %s", e.Type, core.EventLaunched)
		}

		if e.ID == "" {
			t.Fatal("launch event without an id")
		}
	default:
		t.Fatal("no launch event published")
	}
}

func TestLaunchListingFeeSkipped(t *testing.T) {
	ctx := context.Background()
	store := &markerStore{}

	svc, err := New(store, &brokenProvider{}, event.New(8), testLogger(t), Config{
		ListingFee:       "1000000000000",
		LiquidityReserve: 200_000,
	})
	if err != nil {
		t.Fatal(err)
	}

	// a reserve at or below the listing fee graduates fee free
	asset := testAsset(big.NewInt(1_000_000_000_000))

	if err := svc.Launch(ctx, asset); err != nil {
		t.Fatal(err)
	}

	if store.fee.Sign() != 0 {
		t.Fatalf("listing fee %s, want 0", store.fee)
	}
}

func TestLaunchProviderFailure(t *testing.T) {
	tests := []struct {
		name     string
		provider *brokenProvider
	}{
		{"ensure", &brokenProvider{failEnsure: true}},
		{"deposit", &brokenProvider{failDeposit: true}},
		{"lock", &brokenProvider{failLock: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &markerStore{}

			svc, err := New(store, tt.provider, event.New(8), testLogger(t), Config{
				ListingFee:       "1000000000000",
				LiquidityReserve: 200_000,
			})
			if err != nil {
				t.Fatal(err)
			}

			asset := testAsset(big.NewInt(500_000_000_000_000))

			err = svc.Launch(context.Background(), asset)
			if !errors.Is(err, core.ErrTransferFailed) {
				t.Fatalf("want ErrTransferFailed, got %v", err)
			}

			if store.calls != 0 {
				t.Fatal("failed launch must not touch the ledger")
			}

			if asset.Launched {
				t.Fatal("failed launch must leave the asset trading")
			}
		})
	}
}

func TestLaunchAlreadyLaunched(t *testing.T) {
	svc, err := New(&markerStore{}, &brokenProvider{}, event.New(8), testLogger(t), Config{
		ListingFee:       "1000000000000",
		LiquidityReserve: 200_000,
	})
	if err != nil {
		t.Fatal(err)
	}

	asset := testAsset(big.NewInt(0))
	asset.Launched = true

	if err := svc.Launch(context.Background(), asset); !errors.Is(err, core.ErrAlreadyLaunched) {
		t.Fatalf("want ErrAlreadyLaunched, got %v", err)
	}
}
