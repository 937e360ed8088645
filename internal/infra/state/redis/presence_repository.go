// Package redisstate implements the Redis-backed state repositories.
package redisstate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisPresenceRepository keeps the online-user set in a Redis sorted
// set scored by expiry time. Entries that are never refreshed (crashed
// process, dropped link) age out by falling below the now-score cutoff
// instead of lingering forever.
type RedisPresenceRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPresenceRepository creates a RedisPresenceRepository.
// keyPrefix namespaces all keys, e.g. "chat:".
func NewRedisPresenceRepository(client *redis.Client, keyPrefix string) *RedisPresenceRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisPresenceRepository")
	}
	return &RedisPresenceRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisPresenceRepository) onlineKey() string {
	return r.keyPrefix + "presence:online"
}

func (r *RedisPresenceRepository) MarkOnline(ctx context.Context, userID uint, ttl time.Duration) error {
	expiry := float64(time.Now().Add(ttl).Unix())
	err := r.client.ZAdd(ctx, r.onlineKey(), &redis.Z{
		Score:  expiry,
		Member: strconv.FormatUint(uint64(userID), 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: mark user %d online: %w", userID, err)
	}
	return nil
}

func (r *RedisPresenceRepository) MarkOffline(ctx context.Context, userID uint) error {
	err := r.client.ZRem(ctx, r.onlineKey(), strconv.FormatUint(uint64(userID), 10)).Err()
	if err != nil {
		return fmt.Errorf("redis: mark user %d offline: %w", userID, err)
	}
	return nil
}

// OnlineIDs returns users whose entries have not expired, and prunes
// the expired ones while it is here.
func (r *RedisPresenceRepository) OnlineIDs(ctx context.Context) ([]uint, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	// Best-effort prune; a failure here never hides live entries.
	_ = r.client.ZRemRangeByScore(ctx, r.onlineKey(), "-inf", "("+now).Err()

	members, err := r.client.ZRangeByScore(ctx, r.onlineKey(), &redis.ZRangeBy{
		Min: now,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list online users: %w", err)
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
