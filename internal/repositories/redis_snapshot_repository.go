package repositories

import (
	"context"
	"errors"

	"peerprep/interview/internal/store"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "interview:snapshot:"

// RedisSnapshotRepository stores session snapshots as plain Redis strings.
type RedisSnapshotRepository struct {
	Client *redis.Client
}

func (r *RedisSnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	return data, err
}

func (r *RedisSnapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	return r.Client.Set(ctx, redisKeyPrefix+key, data, 0).Err()
}

func (r *RedisSnapshotRepository) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *RedisSnapshotRepository) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

var _ store.Backend = (*RedisSnapshotRepository)(nil)
