package locking

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// defaultLockKey guards the single reconciliation pass. One key suffices
// because a run always covers the whole fetched page.
const defaultLockKey = "ordersync:run:lock"

// RedisRunLock implements the RunLock port on Redis. Suitable for
// distributed deployments where overlapping scheduled triggers may land on
// different instances.
type RedisRunLock struct {
	client *redis.Client
	key    string
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunLock creates a Redis-backed run lock and verifies connectivity.
func NewRedisRunLock(cfg RedisConfig) (*RedisRunLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunLock{client: client, key: defaultLockKey}, nil
}

// NewRedisRunLockWithClient creates a lock with an existing Redis client.
func NewRedisRunLockWithClient(client *redis.Client, key string) *RedisRunLock {
	if key == "" {
		key = defaultLockKey
	}
	return &RedisRunLock{client: client, key: key}
}

// Acquire takes the guard via SETNX with a TTL. The TTL bounds how long a
// crashed run can block its successors.
func (l *RedisRunLock) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return acquired, nil
}

// Release frees the guard.
func (l *RedisRunLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (l *RedisRunLock) Close() error {
	return l.client.Close()
}

// Ensure RedisRunLock implements the RunLock port
var _ reconcile.RunLock = (*RedisRunLock)(nil)
