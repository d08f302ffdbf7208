package redis

import (
	"context"
	"time"

	re "github.com/redis/go-redis/v9"
)

// Set 设置键值
func (r *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Exists 检查键是否存在
func (r *Client) Exists(ctx context.Context, key string) (bool, error) {
	res, err := r.client.Exists(ctx, key).Result()
	return res > 0, err
}

// Incr bumps a fixed window counter. The expiry is set only when the key
// is created, so the window does not slide with every hit.
func (r *Client) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *re.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe re.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
