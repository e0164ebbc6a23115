package model

import "sort"

// FeeSnapshotRow is the storage representation of one position's fees at a
// block. Liquidity is kept as a decimal string so the 256-bit magnitude
// survives JSON and SQL round trips.
type FeeSnapshotRow struct {
	BlockNumber                 uint64  `json:"block_number"`
	PositionID                  int64   `json:"position_id"`
	Owner                       string  `json:"owner"`
	Liquidity                   string  `json:"liquidity"`
	Uncollected0                float64 `json:"uncollected_fees_0"`
	Uncollected1                float64 `json:"uncollected_fees_1"`
	Collected0                  float64 `json:"collected_fees_0"`
	Collected1                  float64 `json:"collected_fees_1"`
	UncollectedToken1Equivalent float64 `json:"uncollected_fees_token1_equivalent"`
	CollectedToken1Equivalent   float64 `json:"collected_fees_token1_equivalent"`
	TotalToken1Equivalent       float64 `json:"total_fees_token1_equivalent"`
}

// GrowthRow is the storage representation of one position's fee growth
// between two blocks. LiquidityDelta may be negative.
type GrowthRow struct {
	BlockStart                  uint64  `json:"block_start"`
	BlockEnd                    uint64  `json:"block_end"`
	PositionID                  int64   `json:"position_id"`
	Owner                       string  `json:"owner"`
	LiquidityDelta              string  `json:"liquidity_delta"`
	Uncollected0                float64 `json:"uncollected_fees_0_growth"`
	Uncollected1                float64 `json:"uncollected_fees_1_growth"`
	Collected0                  float64 `json:"collected_fees_0_growth"`
	Collected1                  float64 `json:"collected_fees_1_growth"`
	UncollectedToken1Equivalent float64 `json:"uncollected_fees_token1_equivalent_growth"`
	CollectedToken1Equivalent   float64 `json:"collected_fees_token1_equivalent_growth"`
	TotalToken1Equivalent       float64 `json:"total_fees_token1_equivalent_growth"`
}

// BuildFeeSnapshotRows flattens a position fee set into rows ordered by
// position id.
func BuildFeeSnapshotRows(blockNumber uint64, fees map[int64]PositionFees) []FeeSnapshotRow {
	rows := make([]FeeSnapshotRow, 0, len(fees))
	for id, f := range fees {
		rows = append(rows, FeeSnapshotRow{
			BlockNumber:                 blockNumber,
			PositionID:                  id,
			Owner:                       f.Owner,
			Liquidity:                   f.Liquidity.String(),
			Uncollected0:                f.Uncollected0,
			Uncollected1:                f.Uncollected1,
			Collected0:                  f.Collected0,
			Collected1:                  f.Collected1,
			UncollectedToken1Equivalent: f.UncollectedToken1Equivalent,
			CollectedToken1Equivalent:   f.CollectedToken1Equivalent,
			TotalToken1Equivalent:       f.TotalToken1Equivalent,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PositionID < rows[j].PositionID })
	return rows
}

// BuildGrowthRows flattens a growth set into rows ordered by position id.
func BuildGrowthRows(blockStart, blockEnd uint64, growth map[int64]GrowthRecord) []GrowthRow {
	rows := make([]GrowthRow, 0, len(growth))
	for id, g := range growth {
		rows = append(rows, GrowthRow{
			BlockStart:                  blockStart,
			BlockEnd:                    blockEnd,
			PositionID:                  id,
			Owner:                       g.Owner,
			LiquidityDelta:              g.Liquidity.String(),
			Uncollected0:                g.Uncollected0,
			Uncollected1:                g.Uncollected1,
			Collected0:                  g.Collected0,
			Collected1:                  g.Collected1,
			UncollectedToken1Equivalent: g.UncollectedToken1Equivalent,
			CollectedToken1Equivalent:   g.CollectedToken1Equivalent,
			TotalToken1Equivalent:       g.TotalToken1Equivalent,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PositionID < rows[j].PositionID })
	return rows
}
