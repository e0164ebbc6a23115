package fees

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"

	"feeScope/internal/model"
)

// Accountant computes uncollected and collected fees for a single position
// record at a single block, following the standard fee-growth-inside
// algorithm (Uniswap whitepaper 6.3/6.4): fr = fg - fb(il) - fa(iu),
// fu = l * (fr(t1) - fr(t0)) / 2^128.
type Accountant struct {
	clampThreshold *big.Int
	clampCount     atomic.Uint64
	logger         *zap.Logger
}

// NewAccountant builds an Accountant. A nil clampThreshold selects
// DefaultClampThreshold; a nil logger selects a no-op logger.
func NewAccountant(clampThreshold *big.Int, logger *zap.Logger) *Accountant {
	if clampThreshold == nil {
		clampThreshold = DefaultClampThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accountant{
		clampThreshold: clampThreshold,
		logger:         logger,
	}
}

// ClampCount reports how many fee diffs were zeroed by the stale-value clamp
// since the Accountant was created.
func (a *Accountant) ClampCount() uint64 {
	return a.clampCount.Load()
}

// ComputeFees derives the position's fee state from its raw record and the
// pool's price context at the queried block. Pure: no side effects beyond
// the clamp counter. Malformed numeric fields fail with
// model.ErrMalformedRecord.
func (a *Accountant) ComputeFees(record model.PositionRecord, pool model.PoolTick) (model.PositionFees, error) {
	decimals0, err := parseDecimals(record.Token0.Decimals, "token0.decimals")
	if err != nil {
		return model.PositionFees{}, err
	}
	decimals1, err := parseDecimals(record.Token1.Decimals, "token1.decimals")
	if err != nil {
		return model.PositionFees{}, err
	}

	liquidity, err := parseBigInt(record.Liquidity, "liquidity")
	if err != nil {
		return model.PositionFees{}, err
	}

	tickCurrent, err := parseInt64(record.Pool.Tick, "pool.tick")
	if err != nil {
		return model.PositionFees{}, err
	}
	tickLower, err := parseInt64(record.TickLower.TickIdx, "tickLower.tickIdx")
	if err != nil {
		return model.PositionFees{}, err
	}
	tickUpper, err := parseInt64(record.TickUpper.TickIdx, "tickUpper.tickIdx")
	if err != nil {
		return model.PositionFees{}, err
	}

	feeGrowthGlobal0, err := parseBigInt(record.Pool.FeeGrowthGlobal0X128, "pool.feeGrowthGlobal0X128")
	if err != nil {
		return model.PositionFees{}, err
	}
	feeGrowthGlobal1, err := parseBigInt(record.Pool.FeeGrowthGlobal1X128, "pool.feeGrowthGlobal1X128")
	if err != nil {
		return model.PositionFees{}, err
	}

	lowerOutside0, err := parseBigInt(record.TickLower.FeeGrowthOutside0X128, "tickLower.feeGrowthOutside0X128")
	if err != nil {
		return model.PositionFees{}, err
	}
	lowerOutside1, err := parseBigInt(record.TickLower.FeeGrowthOutside1X128, "tickLower.feeGrowthOutside1X128")
	if err != nil {
		return model.PositionFees{}, err
	}
	upperOutside0, err := parseBigInt(record.TickUpper.FeeGrowthOutside0X128, "tickUpper.feeGrowthOutside0X128")
	if err != nil {
		return model.PositionFees{}, err
	}
	upperOutside1, err := parseBigInt(record.TickUpper.FeeGrowthOutside1X128, "tickUpper.feeGrowthOutside1X128")
	if err != nil {
		return model.PositionFees{}, err
	}

	insideLast0, err := parseBigInt(record.FeeGrowthInside0LastX128, "feeGrowthInside0LastX128")
	if err != nil {
		return model.PositionFees{}, err
	}
	insideLast1, err := parseBigInt(record.FeeGrowthInside1LastX128, "feeGrowthInside1LastX128")
	if err != nil {
		return model.PositionFees{}, err
	}

	// Fee growth above the upper tick: direct outside value while the tick is
	// below the boundary, derived from the global accumulator otherwise.
	var above0, above1 *big.Int
	if tickCurrent >= tickUpper {
		above0 = SubIn256(feeGrowthGlobal0, upperOutside0)
		above1 = SubIn256(feeGrowthGlobal1, upperOutside1)
	} else {
		above0 = upperOutside0
		above1 = upperOutside1
	}

	// Fee growth below the lower tick, mirrored.
	var below0, below1 *big.Int
	if tickCurrent >= tickLower {
		below0 = lowerOutside0
		below1 = lowerOutside1
	} else {
		below0 = SubIn256(feeGrowthGlobal0, lowerOutside0)
		below1 = SubIn256(feeGrowthGlobal1, lowerOutside1)
	}

	frCurrent0 := SubIn256(SubIn256(feeGrowthGlobal0, below0), above0)
	frCurrent1 := SubIn256(SubIn256(feeGrowthGlobal1, below1), above1)

	feeDiff0 := SubIn256(frCurrent0, insideLast0)
	feeDiff1 := SubIn256(frCurrent1, insideLast1)

	feeDiff0 = a.clampFeeDiff(record.ID, 0, feeDiff0)
	feeDiff1 = a.clampFeeDiff(record.ID, 1, feeDiff1)

	uncollectedRaw0 := new(big.Int).Mul(liquidity, feeDiff0)
	uncollectedRaw0.Div(uncollectedRaw0, X128)
	uncollectedRaw1 := new(big.Int).Mul(liquidity, feeDiff1)
	uncollectedRaw1.Div(uncollectedRaw1, X128)

	uncollected0 := math.Max(0, adjustAmount(uncollectedRaw0, decimals0))
	uncollected1 := math.Max(0, adjustAmount(uncollectedRaw1, decimals1))

	collectedNative0, err := parseFloat(record.CollectedFeesToken0, "collectedFeesToken0")
	if err != nil {
		return model.PositionFees{}, err
	}
	collectedNative1, err := parseFloat(record.CollectedFeesToken1, "collectedFeesToken1")
	if err != nil {
		return model.PositionFees{}, err
	}

	collected0 := math.Max(0, collectedNative0) / math.Pow(10, float64(decimals0))
	collected1 := math.Max(0, collectedNative1) / math.Pow(10, float64(decimals1))

	// Token1Price is how much token0 equals one token1, so multiplying a
	// token0 amount by it yields token1 units.
	uncollectedEquiv := Token1Equivalent(uncollected0, uncollected1, pool.Token1Price)
	collectedEquiv := Token1Equivalent(collected0, collected1, pool.Token1Price)

	return model.PositionFees{
		Uncollected0:                uncollected0,
		Uncollected1:                uncollected1,
		Collected0:                  collected0,
		Collected1:                  collected1,
		Liquidity:                   liquidity,
		Owner:                       record.Owner,
		UncollectedToken1Equivalent: uncollectedEquiv,
		CollectedToken1Equivalent:   collectedEquiv,
		TotalToken1Equivalent:       uncollectedEquiv + collectedEquiv,
	}, nil
}

// clampFeeDiff zeroes diffs at or beyond the configured threshold. The event
// is counted and logged, never surfaced as an error.
func (a *Accountant) clampFeeDiff(positionID string, token int, diff *big.Int) *big.Int {
	if diff.Cmp(a.clampThreshold) < 0 {
		return diff
	}
	a.clampCount.Add(1)
	a.logger.Debug("fee diff clamped",
		zap.String("position_id", positionID),
		zap.Int("token", token),
		zap.String("fee_diff", diff.String()),
	)
	return big.NewInt(0)
}

// Token1Equivalent converts a token0 amount to token1 units via the pool's
// token0-per-token1 rate and adds the native token1 amount.
func Token1Equivalent(amount0, amount1, token0ToToken1Rate float64) float64 {
	return amount0*token0ToToken1Rate + amount1
}

func adjustAmount(raw *big.Int, decimals int) float64 {
	if decimals == 0 {
		value, _ := new(big.Float).SetInt(raw).Float64()
		return value
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quotient := new(big.Float).Quo(new(big.Float).SetInt(raw), new(big.Float).SetInt(denom))
	value, _ := quotient.Float64()
	return value
}

func parseBigInt(value string, field string) (*big.Int, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s: invalid int %q", model.ErrMalformedRecord, field, value)
	}
	return parsed, nil
}

func parseInt64(value string, field string) (int64, error) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: invalid int %q", model.ErrMalformedRecord, field, value)
	}
	return parsed, nil
}

func parseFloat(value string, field string) (float64, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: invalid number %q", model.ErrMalformedRecord, field, value)
	}
	return parsed, nil
}

func parseDecimals(value string, field string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 || parsed > 255 {
		return 0, fmt.Errorf("%w: %s: invalid decimals %q", model.ErrMalformedRecord, field, value)
	}
	return parsed, nil
}
