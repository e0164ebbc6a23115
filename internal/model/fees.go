package model

import "math/big"

// PositionFees holds the computed fee state for one position at one block.
// Fee amounts are decimal-adjusted (native units divided by 10^decimals);
// Liquidity is the raw integer magnitude carried through unchanged.
type PositionFees struct {
	Uncollected0 float64
	Uncollected1 float64
	Collected0   float64
	Collected1   float64
	Liquidity    *big.Int
	Owner        string

	UncollectedToken1Equivalent float64
	CollectedToken1Equivalent   float64
	TotalToken1Equivalent       float64
}

// GrowthRecord mirrors PositionFees field-for-field, but every fee and
// valuation field is a non-negative delta between an end-block and a
// start-block snapshot, and Liquidity is a signed delta.
type GrowthRecord struct {
	Uncollected0 float64
	Uncollected1 float64
	Collected0   float64
	Collected1   float64
	Liquidity    *big.Int
	Owner        string

	UncollectedToken1Equivalent float64
	CollectedToken1Equivalent   float64
	TotalToken1Equivalent       float64
}

// GrowthFromFees copies an end-block snapshot into a GrowthRecord, used when
// a position has no start-block baseline.
func GrowthFromFees(fees PositionFees) GrowthRecord {
	return GrowthRecord{
		Uncollected0:                fees.Uncollected0,
		Uncollected1:                fees.Uncollected1,
		Collected0:                  fees.Collected0,
		Collected1:                  fees.Collected1,
		Liquidity:                   new(big.Int).Set(fees.Liquidity),
		Owner:                       fees.Owner,
		UncollectedToken1Equivalent: fees.UncollectedToken1Equivalent,
		CollectedToken1Equivalent:   fees.CollectedToken1Equivalent,
		TotalToken1Equivalent:       fees.TotalToken1Equivalent,
	}
}
