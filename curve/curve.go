package curve

import (
	"errors"
	"math/big"
)

// FeeDenominator is the basis point scale shared by every fee in the
// engine.
const FeeDenominator = 10_000

// Curve is an exponential price curve. The unit price after s whole units
// have been sold is initialPrice·e^(slope·s); the cost of a purchase is
// the integral of that price over the bought range:
//
//	cost(s, Δ) = initialPrice/slope · (e^(slope·(s+Δ)) − e^(slope·s))
//
// initialPrice is denominated in native smallest units per whole token,
// slope is Q18 per whole token. Both are immutable after construction.
type Curve struct {
	initialPrice *big.Int
	slope        *big.Int
}

func New(initialPrice, slope *big.Int) (*Curve, error) {
	if initialPrice == nil || initialPrice.Sign() <= 0 {
		return nil, errors.New("curve: initial price must be positive")
	}

	if slope == nil || slope.Sign() <= 0 {
		return nil, errors.New("curve: slope must be positive")
	}

	return &Curve{
		initialPrice: new(big.Int).Set(initialPrice),
		slope:        new(big.Int).Set(slope),
	}, nil
}

// exponent returns slope·supply in Q18, with supply itself a Q18 token
// amount.
func (c *Curve) exponent(supply *big.Int) *big.Int {
	x := new(big.Int).Mul(c.slope, supply)
	return x.Quo(x, One)
}

// Cost prices a mint of delta on top of supply. Both arguments are Q18
// token amounts; the result is in native smallest units.
func (c *Curve) Cost(supply, delta *big.Int) (*big.Int, error) {
	next := new(big.Int).Add(supply, delta)
	return c.segment(supply, next)
}

// Refund prices a burn of delta out of supply. delta ≤ supply is the
// caller's precondition; the ledger validates it before calling in.
func (c *Curve) Refund(supply, delta *big.Int) (*big.Int, error) {
	prev := new(big.Int).Sub(supply, delta)
	return c.segment(prev, supply)
}

// Spot returns the instantaneous unit price at the given supply.
func (c *Curve) Spot(supply *big.Int) (*big.Int, error) {
	e, err := Exp(c.exponent(supply))
	if err != nil {
		return nil, err
	}

	price := new(big.Int).Mul(c.initialPrice, e)
	if price.Cmp(maxUint256) > 0 {
		return nil, ErrOverflow
	}

	return price.Quo(price, One), nil
}

func (c *Curve) segment(lower, upper *big.Int) (*big.Int, error) {
	lo, err := Exp(c.exponent(lower))
	if err != nil {
		return nil, err
	}

	hi, err := Exp(c.exponent(upper))
	if err != nil {
		return nil, err
	}

	diff := hi.Sub(hi, lo)
	amount := diff.Mul(diff, c.initialPrice)
	if amount.Cmp(maxUint256) > 0 {
		return nil, ErrOverflow
	}

	return amount.Quo(amount, c.slope), nil
}

// FeeOn computes a basis point fee on amount, truncating.
func FeeOn(amount *big.Int, bps int64) *big.Int {
	fee := new(big.Int).Mul(amount, big.NewInt(bps))
	return fee.Quo(fee, big.NewInt(FeeDenominator))
}
