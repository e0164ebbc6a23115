package model

// TokenMeta is the token descriptor embedded in a subgraph position record.
// All scalar values arrive as strings and are parsed downstream.
type TokenMeta struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals string `json:"decimals"`
}

// PoolState carries the pool-level fields returned alongside a position,
// as of the queried block.
type PoolState struct {
	ID                   string `json:"id"`
	Liquidity            string `json:"liquidity"`
	SqrtPrice            string `json:"sqrtPrice"`
	Tick                 string `json:"tick"`
	FeeGrowthGlobal0X128 string `json:"feeGrowthGlobal0X128"`
	FeeGrowthGlobal1X128 string `json:"feeGrowthGlobal1X128"`
}

// TickBoundary is one side of a position's tick range together with its
// fee-growth-outside accumulator pair.
type TickBoundary struct {
	TickIdx               string `json:"tickIdx"`
	FeeGrowthOutside0X128 string `json:"feeGrowthOutside0X128"`
	FeeGrowthOutside1X128 string `json:"feeGrowthOutside1X128"`
}

// PositionRecord is the raw subgraph position row at a single block.
// Fetched fresh per call and never mutated.
type PositionRecord struct {
	ID                       string       `json:"id"`
	Owner                    string       `json:"owner"`
	Liquidity                string       `json:"liquidity"`
	Token0                   TokenMeta    `json:"token0"`
	Token1                   TokenMeta    `json:"token1"`
	Pool                     PoolState    `json:"pool"`
	TickLower                TickBoundary `json:"tickLower"`
	TickUpper                TickBoundary `json:"tickUpper"`
	FeeGrowthInside0LastX128 string       `json:"feeGrowthInside0LastX128"`
	FeeGrowthInside1LastX128 string       `json:"feeGrowthInside1LastX128"`
	CollectedFeesToken0      string       `json:"collectedFeesToken0"`
	CollectedFeesToken1      string       `json:"collectedFeesToken1"`
	DepositedToken0          string       `json:"depositedToken0"`
	DepositedToken1          string       `json:"depositedToken1"`
	WithdrawnToken0          string       `json:"withdrawnToken0"`
	WithdrawnToken1          string       `json:"withdrawnToken1"`
}

// PoolTick is the parsed pool-level price context for one pool at one block.
// Token0Price is the pool's token0 price denominated in token1; Token1Price
// is the inverse (how much token0 equals one token1).
type PoolTick struct {
	Tick        int64
	Token0Price float64
	Token1Price float64
}
