package fees

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"feeScope/internal/model"
)

// DefaultBatchSize is the page size for position queries.
const DefaultBatchSize = 1000

// Querier is the read interface against the remote indexed data source.
// Both operations are parameterized by block number and must serve state as
// of that historical block.
type Querier interface {
	QueryPositions(ctx context.Context, blockNumber uint64, first, skip int) ([]model.PositionRecord, error)
	QueryPoolTick(ctx context.Context, poolID string, blockNumber uint64) (model.PoolTick, error)
}

// Fetcher assembles the complete position fee set at a block via paginated
// queries, applying the Accountant to each raw record.
type Fetcher struct {
	querier    Querier
	accountant *Accountant
	batchSize  int
	logger     *zap.Logger
}

// NewFetcher builds a Fetcher. A batchSize <= 0 selects DefaultBatchSize;
// a nil logger selects a no-op logger.
func NewFetcher(querier Querier, accountant *Accountant, batchSize int, logger *zap.Logger) *Fetcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		querier:    querier,
		accountant: accountant,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// FetchAll returns the fee state of every position at blockNumber, keyed by
// position id. Pagination stops on an empty page or a page shorter than the
// batch size. Any page, pool, or per-record failure aborts the whole call;
// no partial set is returned.
func (f *Fetcher) FetchAll(ctx context.Context, blockNumber uint64) (map[int64]model.PositionFees, error) {
	if f.querier == nil {
		return nil, fmt.Errorf("querier is nil")
	}

	result := make(map[int64]model.PositionFees)
	cache := NewPoolPriceCache()
	skip := 0

	for {
		records, err := f.querier.QueryPositions(ctx, blockNumber, f.batchSize, skip)
		if err != nil {
			return nil, fmt.Errorf("query positions at block %d (skip %d): %w", blockNumber, skip, err)
		}
		if len(records) == 0 {
			break
		}

		for _, record := range records {
			poolTick, ok := cache.Get(record.Pool.ID)
			if !ok {
				poolTick, err = f.querier.QueryPoolTick(ctx, record.Pool.ID, blockNumber)
				if err != nil {
					return nil, fmt.Errorf("query pool %s at block %d: %w", record.Pool.ID, blockNumber, err)
				}
				cache.Put(record.Pool.ID, poolTick)
			}

			positionFees, err := f.accountant.ComputeFees(record, poolTick)
			if err != nil {
				return nil, fmt.Errorf("position %s at block %d: %w", record.ID, blockNumber, err)
			}

			id, err := parseInt64(record.ID, "id")
			if err != nil {
				return nil, err
			}
			// Duplicate ids within one fetch should not happen; later wins.
			result[id] = positionFees
		}

		if len(records) < f.batchSize {
			break
		}
		skip += f.batchSize
	}

	f.logger.Info("position set fetched",
		zap.Uint64("block_number", blockNumber),
		zap.Int("positions", len(result)),
		zap.Int("pools", cache.Len()),
	)

	return result, nil
}
