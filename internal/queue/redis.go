package queue

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
)

const (
	// redisBlockTimeout bounds each BRPOPLPUSH call. Redis blocking
	// commands cannot be interrupted by a context, so Dequeue polls in
	// short blocking rounds and checks ctx between them.
	redisBlockTimeout = 2 * time.Second

	poolMaxIdle     = 3
	poolIdleTimeout = 240 * time.Second
)

// NewRedisPool builds a connection pool for the given address
// (host:port). The pool is shared between the queue and the lock
// layer by the callers that wire both.
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     poolMaxIdle,
		IdleTimeout: poolIdleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// RedisQueue is a reliable queue on a Redis list. Enqueue pushes to
// the main list; Dequeue atomically moves a job to a per-consumer
// processing list, where it stays until Ack removes it. Jobs left in
// a processing list by a crashed consumer are returned to the main
// list by Recover on the next start.
type RedisQueue struct {
	pool       *redis.Pool
	name       string
	processing string
}

// NewRedisQueue creates a queue on the named list. consumerID keys
// the processing list so restarted consumers only recover their own
// jobs; empty gets a random ID.
func NewRedisQueue(pool *redis.Pool, name, consumerID string) *RedisQueue {
	if consumerID == "" {
		consumerID = uuid.NewString()
	}
	return &RedisQueue{
		pool:       pool,
		name:       name,
		processing: name + ":processing:" + consumerID,
	}
}

// Enqueue serializes the job and pushes it onto the main list.
func (q *RedisQueue) Enqueue(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	conn, err := q.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("LPUSH", q.name, payload); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Dequeue blocks until a job is available or ctx is done. The job is
// moved to this consumer's processing list and must be Acked once
// handled.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		job, err := q.tryDequeue(ctx)
		if err != nil {
			return nil, err
		}
		if job != nil {
			return job, nil
		}
	}
}

// tryDequeue runs one blocking round. Returns (nil, nil) when the
// round timed out with nothing to do.
func (q *RedisQueue) tryDequeue(ctx context.Context) (*Job, error) {
	conn, err := q.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	payload, err := redis.Bytes(conn.Do("BRPOPLPUSH", q.name, q.processing, int(redisBlockTimeout.Seconds())))
	if err == redis.ErrNil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		// A payload we cannot parse would wedge the queue if left in
		// place, so drop it from the processing list before reporting.
		conn.Do("LREM", q.processing, 1, payload)
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	job.raw = payload
	return &job, nil
}

// Ack removes the job from this consumer's processing list. Jobs not
// obtained from Dequeue are ignored.
func (q *RedisQueue) Ack(ctx context.Context, job *Job) error {
	if len(job.raw) == 0 {
		return nil
	}
	conn, err := q.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("LREM", q.processing, 1, job.raw); err != nil {
		return fmt.Errorf("failed to ack job: %w", err)
	}
	return nil
}

// Recover moves jobs stranded in this consumer's processing list back
// onto the main list and reports how many were moved. Call it once at
// consumer startup, before the first Dequeue.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	conn, err := q.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	moved := 0
	for {
		_, err := redis.Bytes(conn.Do("RPOPLPUSH", q.processing, q.name))
		if err == redis.ErrNil {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("failed to recover jobs: %w", err)
		}
		moved++
	}
}

// Depth reports the length of the main list.
func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	conn, err := q.pool.GetContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	n, err := redis.Int64(conn.Do("LLEN", q.name))
	if err != nil {
		return 0, fmt.Errorf("failed to read queue depth: %w", err)
	}
	return n, nil
}
