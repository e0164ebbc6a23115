package fees

import "feeScope/internal/model"

// PoolPriceCache caches pool price/tick context by pool id for the lifetime
// of one fetch call. Positions sharing a pool reuse the same entry instead
// of repeating the pool-level query; a new fetch (new block) starts with a
// fresh cache.
type PoolPriceCache struct {
	data map[string]model.PoolTick
}

func NewPoolPriceCache() *PoolPriceCache {
	return &PoolPriceCache{data: make(map[string]model.PoolTick)}
}

func (c *PoolPriceCache) Get(poolID string) (model.PoolTick, bool) {
	tick, ok := c.data[poolID]
	return tick, ok
}

func (c *PoolPriceCache) Put(poolID string, tick model.PoolTick) {
	c.data[poolID] = tick
}

func (c *PoolPriceCache) Len() int {
	return len(c.data)
}
