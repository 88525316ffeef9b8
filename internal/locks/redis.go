// Package locks serializes grouped-result edits per survey.
package locks

import (
	"context"
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed holder can wedge a survey.
const DefaultLockTTL = 30 * time.Second

// releaseScript deletes the lock only when the holder's token still
// matches, so a lease that expired and was reacquired by someone else
// is never released by the old holder.
var releaseScript = redis.NewScript(1, `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with Redis SET NX PX leases. Every
// node pointed at the same Redis shares the same locks.
type RedisLocker struct {
	pool       *redis.Pool
	keyPrefix  string
	retryDelay time.Duration
}

// NewRedisLocker creates a locker backed by the given connection pool.
func NewRedisLocker(pool *redis.Pool) *RedisLocker {
	return &RedisLocker{
		pool:       pool,
		keyPrefix:  "collate:lock:",
		retryDelay: 50 * time.Millisecond,
	}
}

// Acquire polls SET NX until the lease is granted or ctx is done.
func (r *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (Release, error) {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	key := r.keyPrefix + name
	token := uuid.NewString()

	for {
		acquired, err := r.try(ctx, key, token, ttl)
		if err != nil {
			return nil, err
		}
		if acquired {
			break
		}

		select {
		case <-time.After(r.retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { r.release(key, token) })
	}, nil
}

func (r *RedisLocker) try(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	reply, err := redis.String(conn.Do("SET", key, token, "NX", "PX", ttl.Milliseconds()))
	if err == redis.ErrNil {
		// Someone else holds the lease
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return reply == "OK", nil
}

func (r *RedisLocker) release(key, token string) {
	conn := r.pool.Get()
	defer conn.Close()
	_, _ = releaseScript.Do(conn, key, token)
}
