package curve

import (
	"math/big"
	"testing"
)

func TestMaxPurchasable(t *testing.T) {
	c := newTestCurve(t)

	supply := units(10_000)
	available := units(790_000)

	limits := []*big.Int{
		big.NewInt(1),
		big.NewInt(1_000_000_000),
		new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(12), nil)),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil),
	}

	for _, limit := range limits {
		q := c.MaxPurchasable(supply, available, limit)

		if q.Sign() > 0 {
			cost, err := c.Cost(supply, new(big.Int).Mul(q, One))
			if err != nil {
				t.Fatalf("limit %s: %v", limit, err)
			}

			if cost.Cmp(limit) > 0 {
				t.Errorf("limit %s: q=%s costs %s, exceeds limit", limit, q, cost)
			}
		}

		// q+1 must not fit, unless the available supply is the binding cap.
		next := new(big.Int).Add(q, big.NewInt(1))
		if next.Cmp(new(big.Int).Quo(available, One)) > 0 {
			continue
		}

		cost, err := c.Cost(supply, new(big.Int).Mul(next, One))
		if err == nil && cost.Cmp(limit) <= 0 {
			t.Errorf("limit %s: q=%s not maximal, %s also fits at %s", limit, q, next, cost)
		}
	}
}

func TestMaxPurchasableZero(t *testing.T) {
	c := newTestCurve(t)

	oneUnit, err := c.Cost(units(0), units(1))
	if err != nil {
		t.Fatal(err)
	}

	limit := new(big.Int).Sub(oneUnit, big.NewInt(1))
	if q := c.MaxPurchasable(units(0), units(800_000), limit); q.Sign() != 0 {
		t.Errorf("MaxPurchasable below unit cost = %s, want 0", q)
	}
}

func TestMaxPurchasableCappedByAvailable(t *testing.T) {
	c := newTestCurve(t)

	// an effectively unlimited budget still cannot buy past the remaining
	// curve supply
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)
	q := c.MaxPurchasable(units(799_000), units(1_000), limit)
	if q.Int64() != 1_000 {
		t.Errorf("MaxPurchasable = %s, want 1000", q)
	}
}

func TestMaxPurchasableNoSupply(t *testing.T) {
	c := newTestCurve(t)

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)
	if q := c.MaxPurchasable(units(800_000), big.NewInt(0), limit); q.Sign() != 0 {
		t.Errorf("MaxPurchasable with no supply = %s, want 0", q)
	}
}
