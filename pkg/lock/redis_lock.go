package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistributedLock serializes state transitions that span several reads and
// writes, such as creating a cycle for a tontine.
type DistributedLock interface {
	// Acquire tries to take the lock identified by key for at most ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives the lock back.
	Release(ctx context.Context, key string) error
}

// RedisLock is a SETNX-based implementation
type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	// SET key value NX EX ttl
	success, err := l.client.SetNX(ctx, "lock:"+key, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, "lock:"+key).Err()
}

// NoopLock satisfies DistributedLock without any coordination.
// Used in tests and single-instance deployments without Redis.
type NoopLock struct{}

func (NoopLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (NoopLock) Release(ctx context.Context, key string) error {
	return nil
}
