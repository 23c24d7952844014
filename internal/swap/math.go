package swap

import (
	"math"
	"math/big"
)

// satAdd returns a+b clamped at the maximum amount instead of wrapping.
func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// satSub returns a-b clamped at zero instead of wrapping.
func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// price converts an asset1 amount into asset0 at the pool's fixed rate
// total0/total1, flooring the division. The multiplication goes through a
// big integer so it cannot overflow; a quotient beyond the amount range is
// clamped at the maximum.
func price(amount1, total0, total1 uint64) (uint64, error) {
	if total1 == 0 {
		return 0, ErrZeroRate
	}
	n := new(big.Int).Mul(new(big.Int).SetUint64(amount1), new(big.Int).SetUint64(total0))
	n.Quo(n, new(big.Int).SetUint64(total1))
	if !n.IsUint64() {
		return math.MaxUint64, nil
	}
	return n.Uint64(), nil
}
