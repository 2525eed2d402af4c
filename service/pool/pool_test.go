package pool

import (
	"context"
	"log/slog"
	"math/big"
	"testing"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	return New(slog.New(slog.NewTextHandler(&testWriter{t}, nil)))
}

type testWriter struct{ t *testing.T }

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestEnsurePoolIdempotent(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t)

	first, err := p.EnsurePool(ctx, "asset-1")
	if err != nil {
		t.Fatal(err)
	}

	second, err := p.EnsurePool(ctx, "asset-1")
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Fatalf("pool recreated: %s != %s", first, second)
	}

	other, err := p.EnsurePool(ctx, "asset-2")
	if err != nil {
		t.Fatal(err)
	}

	if other == first {
		t.Fatal("distinct assets sharing a pool")
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t)

	poolID, err := p.EnsurePool(ctx, "asset-1")
	if err != nil {
		t.Fatal(err)
	}

	currency := big.NewInt(4_000_000)
	tokens := big.NewInt(9_000_000)

	positionID, err := p.Deposit(ctx, poolID, currency, tokens)
	if err != nil {
		t.Fatal(err)
	}

	snapshot, ok := p.Find("asset-1")
	if !ok {
		t.Fatal("pool vanished")
	}

	if snapshot.ReserveCurrency.Cmp(currency) != 0 || snapshot.ReserveToken.Cmp(tokens) != 0 {
		t.Fatalf("reserves %s/%s, want %s/%s",
			snapshot.ReserveCurrency, snapshot.ReserveToken, currency, tokens)
	}

	gotCurrency, gotTokens, err := p.Withdraw(ctx, poolID, positionID)
	if err != nil {
		t.Fatal(err)
	}

	// the sole position owns everything
	if gotCurrency.Cmp(currency) != 0 || gotTokens.Cmp(tokens) != 0 {
		t.Fatalf("withdrew %s/%s, want %s/%s", gotCurrency, gotTokens, currency, tokens)
	}

	if _, _, err := p.Withdraw(ctx, poolID, positionID); err == nil {
		t.Fatal("withdrawing a spent position must fail")
	}
}

func TestDepositRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t)

	poolID, err := p.EnsurePool(ctx, "asset-1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Deposit(ctx, poolID, big.NewInt(0), big.NewInt(1)); err == nil {
		t.Fatal("zero currency deposit must fail")
	}

	if _, err := p.Deposit(ctx, poolID, big.NewInt(1), nil); err == nil {
		t.Fatal("nil token deposit must fail")
	}
}

func TestLockedPositionRefusesWithdraw(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t)

	poolID, err := p.EnsurePool(ctx, "asset-1")
	if err != nil {
		t.Fatal(err)
	}

	positionID, err := p.Deposit(ctx, poolID, big.NewInt(100), big.NewInt(100))
	if err != nil {
		t.Fatal(err)
	}

	if err := p.LockPosition(ctx, poolID, positionID); err != nil {
		t.Fatal(err)
	}

	if _, _, err := p.Withdraw(ctx, poolID, positionID); err == nil {
		t.Fatal("locked position must refuse withdrawal")
	}

	// locking twice stays locked, not an error
	if err := p.LockPosition(ctx, poolID, positionID); err != nil {
		t.Fatal(err)
	}
}

func TestUnknownPool(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t)

	if _, err := p.Deposit(ctx, "nope", big.NewInt(1), big.NewInt(1)); err == nil {
		t.Fatal("deposit into an unknown pool must fail")
	}

	if err := p.LockPosition(ctx, "nope", "pos"); err == nil {
		t.Fatal("locking in an unknown pool must fail")
	}

	if _, ok := p.Find("nope"); ok {
		t.Fatal("unknown asset reported a pool")
	}
}
