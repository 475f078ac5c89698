package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKey = "tradejournal:prefs:%s"

// Redis keeps preferences in redis, one string key per preference.
type Redis struct {
	client redis.Cmdable
}

var _ Store = (*Redis)(nil)

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, fmt.Sprintf(redisKey, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get pref %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, fmt.Sprintf(redisKey, key), value, 0).Err(); err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, fmt.Sprintf(redisKey, key)).Err()
}
