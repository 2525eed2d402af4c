package curve

import (
	"math/big"
	"testing"
)

// test curve: 1 gwei at zero supply, slope 3.45e-6 per whole token. At the
// 800k unit cap the exponent is 2.76, well inside the series' accurate
// range.
func newTestCurve(t *testing.T) *Curve {
	t.Helper()

	c, err := New(big.NewInt(1_000_000_000), big.NewInt(3_450_000_000_000))
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), One)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		price   *big.Int
		slope   *big.Int
		wantErr bool
	}{
		{"ok", big.NewInt(1), big.NewInt(1), false},
		{"zero price", big.NewInt(0), big.NewInt(1), true},
		{"zero slope", big.NewInt(1), big.NewInt(0), true},
		{"negative price", big.NewInt(-1), big.NewInt(1), true},
		{"nil slope", big.NewInt(1), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.price, tt.slope); (err != nil) != tt.wantErr {
				t.Errorf("New() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCostPositive(t *testing.T) {
	c := newTestCurve(t)

	for _, supply := range []int64{0, 1, 1000, 400_000, 799_999} {
		cost, err := c.Cost(units(supply), units(1))
		if err != nil {
			t.Fatalf("Cost(%d, 1): %v", supply, err)
		}

		if cost.Sign() <= 0 {
			t.Errorf("Cost(%d, 1) = %s, want > 0", supply, cost)
		}
	}
}

// Cost must be strictly increasing in both arguments; the inverse solver's
// binary search silently returns wrong answers otherwise.
func TestCostMonotonic(t *testing.T) {
	c := newTestCurve(t)

	t.Run("in delta", func(t *testing.T) {
		supply := units(10_000)
		prev := big.NewInt(0)
		for d := int64(1); d <= 64; d *= 2 {
			cost, err := c.Cost(supply, units(d))
			if err != nil {
				t.Fatal(err)
			}

			if cost.Cmp(prev) <= 0 {
				t.Fatalf("Cost(10000, %d) = %s, not greater than %s", d, cost, prev)
			}

			prev = cost
		}
	})

	t.Run("in supply", func(t *testing.T) {
		prev := big.NewInt(0)
		for s := int64(0); s <= 768_000; s += 64_000 {
			cost, err := c.Cost(units(s), units(100))
			if err != nil {
				t.Fatal(err)
			}

			if cost.Cmp(prev) <= 0 {
				t.Fatalf("Cost(%d, 100) = %s, not greater than %s", s, cost, prev)
			}

			prev = cost
		}
	})
}

// Burning the units just minted must price the identical curve segment.
func TestRefundMirrorsCost(t *testing.T) {
	c := newTestCurve(t)

	tests := []struct {
		supply int64
		delta  int64
	}{
		{1, 1},
		{100, 40},
		{5_000, 5_000},
		{800_000, 123},
	}

	for _, tt := range tests {
		cost, err := c.Cost(units(tt.supply-tt.delta), units(tt.delta))
		if err != nil {
			t.Fatal(err)
		}

		refund, err := c.Refund(units(tt.supply), units(tt.delta))
		if err != nil {
			t.Fatal(err)
		}

		if cost.Cmp(refund) != 0 {
			t.Errorf("supply %d delta %d: cost %s != refund %s", tt.supply, tt.delta, cost, refund)
		}
	}
}

// A fee applied on both legs makes an immediate round trip strictly lossy,
// with the loss exactly the two fee charges.
func TestRoundTripLeakage(t *testing.T) {
	c := newTestCurve(t)

	const feeBps = 100

	supply := units(42_000)
	qty := units(500)

	cost, err := c.Cost(supply, qty)
	if err != nil {
		t.Fatal(err)
	}

	paid := new(big.Int).Add(cost, FeeOn(cost, feeBps))

	next := new(big.Int).Add(supply, qty)
	refund, err := c.Refund(next, qty)
	if err != nil {
		t.Fatal(err)
	}

	received := new(big.Int).Sub(refund, FeeOn(refund, feeBps))
	if received.Cmp(paid) >= 0 {
		t.Fatalf("round trip received %s, paid %s; want strict loss", received, paid)
	}

	loss := new(big.Int).Sub(paid, received)
	want := new(big.Int).Add(FeeOn(cost, feeBps), FeeOn(refund, feeBps))
	if loss.Cmp(want) != 0 {
		t.Errorf("round trip loss = %s, want %s", loss, want)
	}
}

func TestSpotIncreasing(t *testing.T) {
	c := newTestCurve(t)

	lo, err := c.Spot(units(0))
	if err != nil {
		t.Fatal(err)
	}

	hi, err := c.Spot(units(800_000))
	if err != nil {
		t.Fatal(err)
	}

	if hi.Cmp(lo) <= 0 {
		t.Errorf("Spot(800000) = %s, not greater than Spot(0) = %s", hi, lo)
	}
}

func TestFeeOn(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		bps    int64
		want   int64
	}{
		{"one percent", 10_000, 100, 100},
		{"truncates", 99, 100, 0},
		{"zero", 0, 100, 0},
		{"full", 123, 10_000, 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FeeOn(big.NewInt(tt.amount), tt.bps); got.Int64() != tt.want {
				t.Errorf("FeeOn(%d, %d) = %s, want %d", tt.amount, tt.bps, got, tt.want)
			}
		})
	}
}
