package storage

import "feeScope/internal/model"

// FeeSink is a destination for fee snapshot rows.
type FeeSink interface {
	PutFeeSnapshots(rows []model.FeeSnapshotRow) error
}

// GrowthSink is a destination for growth rows.
type GrowthSink interface {
	PutGrowthRows(rows []model.GrowthRow) error
}
