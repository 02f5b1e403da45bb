package gcal

import (
	"context"
	"encoding/json"
)

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("freebusy cache write failed")
	}
}
