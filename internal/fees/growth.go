package fees

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"go.uber.org/zap"

	"feeScope/internal/model"
)

// SnapshotFetcher is what the Calculator needs from a position set source.
type SnapshotFetcher interface {
	FetchAll(ctx context.Context, blockNumber uint64) (map[int64]model.PositionFees, error)
}

// Calculator computes per-position fee growth between two block snapshots.
type Calculator struct {
	fetcher SnapshotFetcher
	logger  *zap.Logger
}

func NewCalculator(fetcher SnapshotFetcher, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{fetcher: fetcher, logger: logger}
}

// ComputeGrowth fetches the start- and end-block position sets and derives
// the growth set. Positions present only at the start block (closed in
// between) are omitted from the growth set.
func (c *Calculator) ComputeGrowth(ctx context.Context, blockStart, blockEnd uint64) (map[int64]model.PositionFees, map[int64]model.PositionFees, map[int64]model.GrowthRecord, error) {
	startSet, err := c.fetcher.FetchAll(ctx, blockStart)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch start block %d: %w", blockStart, err)
	}
	endSet, err := c.fetcher.FetchAll(ctx, blockEnd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch end block %d: %w", blockEnd, err)
	}

	growth := make(map[int64]model.GrowthRecord, len(endSet))
	for id, end := range endSet {
		start, ok := startSet[id]
		if !ok {
			// No baseline: the whole end snapshot is the growth.
			growth[id] = model.GrowthFromFees(end)
			continue
		}
		growth[id] = growthBetween(start, end)
	}

	c.logger.Info("growth computed",
		zap.Uint64("block_start", blockStart),
		zap.Uint64("block_end", blockEnd),
		zap.Int("start_positions", len(startSet)),
		zap.Int("end_positions", len(endSet)),
		zap.Int("growth_positions", len(growth)),
	)

	return startSet, endSet, growth, nil
}

func growthBetween(start, end model.PositionFees) model.GrowthRecord {
	liquidityDelta := new(big.Int).Sub(end.Liquidity, start.Liquidity)

	// A shrinking position's accumulator deltas are not meaningful fee
	// growth; report only the (negative) liquidity delta.
	if liquidityDelta.Sign() < 0 {
		return model.GrowthRecord{
			Liquidity: liquidityDelta,
			Owner:     end.Owner,
		}
	}

	return model.GrowthRecord{
		Uncollected0:                math.Max(0, end.Uncollected0-start.Uncollected0),
		Uncollected1:                math.Max(0, end.Uncollected1-start.Uncollected1),
		Collected0:                  math.Max(0, end.Collected0-start.Collected0),
		Collected1:                  math.Max(0, end.Collected1-start.Collected1),
		Liquidity:                   liquidityDelta,
		Owner:                       end.Owner,
		UncollectedToken1Equivalent: math.Max(0, end.UncollectedToken1Equivalent-start.UncollectedToken1Equivalent),
		CollectedToken1Equivalent:   math.Max(0, end.CollectedToken1Equivalent-start.CollectedToken1Equivalent),
		TotalToken1Equivalent:       math.Max(0, end.TotalToken1Equivalent-start.TotalToken1Equivalent),
	}
}
