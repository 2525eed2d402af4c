package curve

import "math/big"

// MaxPurchasable finds the largest whole unit quantity q such that
// Cost(supply, q·1e18) does not exceed spendLimit, with q further capped
// by the available Q18 curve supply. spendLimit is a net amount, fees
// already deducted by the caller.
//
// The search is a plain integer binary search and is only correct because
// Cost is non-decreasing in delta; that invariant is property tested in
// this package. A probe that overflows counts as too expensive rather
// than as a hit, so an overflowing upper bound can never be returned.
func (c *Curve) MaxPurchasable(supply, available, spendLimit *big.Int) *big.Int {
	hi := new(big.Int).Quo(available, One)
	lo := big.NewInt(0)

	one := big.NewInt(1)
	best := big.NewInt(0)

	for lo.Cmp(hi) <= 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Rsh(mid, 1)

		if mid.Sign() == 0 {
			lo.Add(mid, one)
			continue
		}

		delta := new(big.Int).Mul(mid, One)
		cost, err := c.Cost(supply, delta)
		if err == nil && cost.Cmp(spendLimit) <= 0 {
			best.Set(mid)
			lo.Add(mid, one)
		} else {
			hi.Sub(mid, one)
		}
	}

	return best
}
