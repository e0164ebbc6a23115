package graph

// Query documents against the positions subgraph. Both take a block number
// so results reflect historical state at that block.

const positionsQuery = `
    query GetTokenPositions($blockNumber: Int!, $first: Int = 1000, $skip: Int = 0) {
        positions(first: $first, skip: $skip, block: {number: $blockNumber}) {
            id
            owner
            collectedFeesToken0
            collectedFeesToken1
            token0 {
                symbol
                id
                decimals
            }
            token1 {
                symbol
                id
                decimals
            }
            pool {
                id
                liquidity
                sqrtPrice
                tick
                feeGrowthGlobal0X128
                feeGrowthGlobal1X128
            }
            liquidity
            depositedToken0
            depositedToken1
            feeGrowthInside0LastX128
            feeGrowthInside1LastX128
            tickLower {
                tickIdx
                feeGrowthOutside0X128
                feeGrowthOutside1X128
            }
            tickUpper {
                tickIdx
                feeGrowthOutside0X128
                feeGrowthOutside1X128
            }
            withdrawnToken0
            withdrawnToken1
        }
    }
`

const poolTickQuery = `
    query GetPoolTick($poolId: ID!, $blockNumber: Int!) {
        pool(id: $poolId, block: {number: $blockNumber}) {
            tick
            token0Price
            token1Price
        }
    }
`
