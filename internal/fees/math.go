package fees

import "math/big"

// Fixed-point scale constants for the pool's Q-notation accumulators.
var (
	X96  = new(big.Int).Lsh(big.NewInt(1), 96)
	X128 = new(big.Int).Lsh(big.NewInt(1), 128)
	X256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

// DefaultClampThreshold caps a per-unit-liquidity fee diff at 1% of X128.
// Diffs at or beyond it are treated as stale accumulator artifacts and
// zeroed before scaling. The threshold is a compatibility heuristic carried
// over from the accounting scheme this reproduces, not a protocol rule.
var DefaultClampThreshold = new(big.Int).Div(X128, big.NewInt(100))

// SubIn256 returns (x - y) mod 2^256. The on-chain fee-growth accumulators
// wrap at 2^256, so every accumulator difference must go through here
// instead of plain subtraction: a smaller-minus-larger wraps around rather
// than going negative.
func SubIn256(x, y *big.Int) *big.Int {
	diff := new(big.Int).Sub(x, y)
	if diff.Sign() < 0 {
		diff.Add(diff, X256)
	}
	return diff
}
