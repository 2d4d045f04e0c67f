package snapshots

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	corerr "github.com/KirkDiggler/vtt-bestiary/internal/errors"
)

const keyPrefix = "bestiary:snapshot:"

// redisRepo implements Repository using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// RedisRepoConfig holds configuration for the Redis snapshot repository
type RedisRepoConfig struct {
	Client redis.UniversalClient // Required
}

// NewRedisRepository creates a new Redis-backed snapshot repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepo{
		client: cfg.Client,
	}
}

// NewRedis creates a Redis-backed snapshot repository from a bare client
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

// Save stores a snapshot under the given key
func (r *redisRepo) Save(ctx context.Context, key string, snapshot *entities.Snapshot) error {
	if key == "" {
		return corerr.InvalidArgument("snapshot key is required")
	}
	if snapshot == nil {
		return corerr.InvalidArgument("snapshot is required")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return corerr.Wrapf(err, "failed to marshal snapshot '%s'", key)
	}

	if err := r.client.Set(ctx, keyPrefix+key, string(data), 0).Err(); err != nil {
		return corerr.Wrapf(err, "failed to save snapshot '%s'", key)
	}

	return nil
}

// Load retrieves the snapshot stored under the given key
func (r *redisRepo) Load(ctx context.Context, key string) (*entities.Snapshot, error) {
	if key == "" {
		return nil, corerr.InvalidArgument("snapshot key is required")
	}

	data, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return nil, corerr.NotFoundf("snapshot not found: %s", key)
	}
	if err != nil {
		return nil, corerr.Wrapf(err, "failed to load snapshot '%s'", key)
	}

	var snapshot entities.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, corerr.Wrapf(err, "failed to unmarshal snapshot '%s'", key)
	}

	return &snapshot, nil
}

// Delete removes the snapshot stored under the given key
func (r *redisRepo) Delete(ctx context.Context, key string) error {
	if key == "" {
		return corerr.InvalidArgument("snapshot key is required")
	}

	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return corerr.Wrapf(err, "failed to delete snapshot '%s'", key)
	}

	return nil
}
