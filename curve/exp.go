// Package curve implements the fixed point bonding curve math. All values
// are *big.Int scaled by 1e18 (Q18) unless noted, and every division
// truncates toward zero so results are bit identical across runs.
package curve

import (
	"errors"
	"math/big"
)

// ErrOverflow is returned when an intermediate value exceeds 256 bits.
// It is a fatal arithmetic fault, not a recoverable pricing condition.
var ErrOverflow = errors.New("curve: arithmetic overflow")

var (
	// One is the Q18 scale factor.
	One = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// expTermCap bounds the Maclaurin series. Twenty terms keep the cost of a
// single evaluation fixed; curvature constants must be chosen small enough
// that the truncated tail is negligible over the reachable exponent range.
const expTermCap = 20

// Exp computes e^x for a non-negative Q18 x as
//
//	1 + x + x²/2! + x³/3! + …
//
// summing Q18 terms with truncating division. The loop stops early once a
// term truncates to zero.
func Exp(x *big.Int) (*big.Int, error) {
	if x.Sign() < 0 {
		return nil, errors.New("curve: negative exponent")
	}

	sum := new(big.Int).Set(One)
	term := new(big.Int).Set(One)

	for i := int64(1); i <= expTermCap; i++ {
		term.Mul(term, x)
		if term.Cmp(maxUint256) > 0 {
			return nil, ErrOverflow
		}

		term.Quo(term, One)
		term.Quo(term, big.NewInt(i))
		if term.Sign() == 0 {
			break
		}

		sum.Add(sum, term)
		if sum.Cmp(maxUint256) > 0 {
			return nil, ErrOverflow
		}
	}

	return sum, nil
}
