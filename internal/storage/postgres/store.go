package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"feeScope/internal/model"
)

// Store provides Postgres persistence for fee snapshots and growth rows.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertFeeSnapshots inserts or updates fee snapshot rows.
func (s *Store) UpsertFeeSnapshots(ctx context.Context, rows []model.FeeSnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO position_fee_snapshots (
				block_number, position_id, owner, liquidity,
				uncollected_fees_0, uncollected_fees_1, collected_fees_0, collected_fees_1,
				uncollected_token1_equivalent, collected_token1_equivalent, total_token1_equivalent,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
			ON CONFLICT (block_number, position_id)
			DO UPDATE SET
				owner = EXCLUDED.owner,
				liquidity = EXCLUDED.liquidity,
				uncollected_fees_0 = EXCLUDED.uncollected_fees_0,
				uncollected_fees_1 = EXCLUDED.uncollected_fees_1,
				collected_fees_0 = EXCLUDED.collected_fees_0,
				collected_fees_1 = EXCLUDED.collected_fees_1,
				uncollected_token1_equivalent = EXCLUDED.uncollected_token1_equivalent,
				collected_token1_equivalent = EXCLUDED.collected_token1_equivalent,
				total_token1_equivalent = EXCLUDED.total_token1_equivalent,
				updated_at = now()
		`,
			int64(row.BlockNumber),
			row.PositionID,
			row.Owner,
			row.Liquidity,
			row.Uncollected0,
			row.Uncollected1,
			row.Collected0,
			row.Collected1,
			row.UncollectedToken1Equivalent,
			row.CollectedToken1Equivalent,
			row.TotalToken1Equivalent,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertGrowthRows inserts or updates growth rows.
func (s *Store) UpsertGrowthRows(ctx context.Context, rows []model.GrowthRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO position_fee_growth (
				block_start, block_end, position_id, owner, liquidity_delta,
				uncollected_fees_0_growth, uncollected_fees_1_growth,
				collected_fees_0_growth, collected_fees_1_growth,
				uncollected_token1_equivalent_growth, collected_token1_equivalent_growth,
				total_token1_equivalent_growth, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
			ON CONFLICT (block_start, block_end, position_id)
			DO UPDATE SET
				owner = EXCLUDED.owner,
				liquidity_delta = EXCLUDED.liquidity_delta,
				uncollected_fees_0_growth = EXCLUDED.uncollected_fees_0_growth,
				uncollected_fees_1_growth = EXCLUDED.uncollected_fees_1_growth,
				collected_fees_0_growth = EXCLUDED.collected_fees_0_growth,
				collected_fees_1_growth = EXCLUDED.collected_fees_1_growth,
				uncollected_token1_equivalent_growth = EXCLUDED.uncollected_token1_equivalent_growth,
				collected_token1_equivalent_growth = EXCLUDED.collected_token1_equivalent_growth,
				total_token1_equivalent_growth = EXCLUDED.total_token1_equivalent_growth,
				updated_at = now()
		`,
			int64(row.BlockStart),
			int64(row.BlockEnd),
			row.PositionID,
			row.Owner,
			row.LiquidityDelta,
			row.Uncollected0,
			row.Uncollected1,
			row.Collected0,
			row.Collected1,
			row.UncollectedToken1Equivalent,
			row.CollectedToken1Equivalent,
			row.TotalToken1Equivalent,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
