package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storelink/backend/internal/infrastructure/config"
)

// releaseScript deletes the key only if this holder still owns it
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// RedisLock is a best-effort distributed lease backed by SETNX. It keeps
// concurrent sync passes from interleaving their scans; the TTL bounds
// how long a crashed holder can block the next pass.
type RedisLock struct {
	client    *redis.Client
	keyPrefix string
	holderID  string
}

// NewRedisLock creates a lock manager with its own Redis connection
func NewRedisLock(cfg config.RedisConfig) (*RedisLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisLockWithClient(client, ""), nil
}

// NewRedisLockWithClient creates a lock manager with an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisLockWithClient(client *redis.Client, keyPrefix string) *RedisLock {
	if keyPrefix == "" {
		keyPrefix = "sync:lock:"
	}
	return &RedisLock{
		client:    client,
		keyPrefix: keyPrefix,
		holderID:  uuid.NewString(),
	}
}

// Acquire tries to take the lease for the given name. It reports false
// when another process owns it.
func (l *RedisLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+name, l.holderID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %q: %w", name, err)
	}
	return ok, nil
}

// Release returns the lease. Only the holder that acquired it can release
// it; an expired or foreign lease is left alone.
func (l *RedisLock) Release(ctx context.Context, name string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.keyPrefix + name}, l.holderID).Err(); err != nil {
		return fmt.Errorf("failed to release lock %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying Redis client
func (l *RedisLock) Close() error {
	return l.client.Close()
}
