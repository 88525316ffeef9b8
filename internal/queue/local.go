package queue

import "context"

// DefaultLocalCapacity bounds the in-process queue. Jobs are small;
// hitting this many pending runs means the workers are badly behind
// and the producer should hear about it.
const DefaultLocalCapacity = 256

// LocalQueue is an in-process queue backed by a buffered channel. It
// serves single-binary deployments where the API and workers share a
// process, and tests.
type LocalQueue struct {
	jobs chan *Job
}

// NewLocalQueue creates a local queue. A capacity of zero or less
// falls back to DefaultLocalCapacity.
func NewLocalQueue(capacity int) *LocalQueue {
	if capacity <= 0 {
		capacity = DefaultLocalCapacity
	}
	return &LocalQueue{jobs: make(chan *Job, capacity)}
}

// Enqueue submits a job without blocking. Returns ErrQueueFull when
// the buffer is at capacity.
func (q *LocalQueue) Enqueue(ctx context.Context, job *Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Dequeue blocks until a job arrives or ctx is done.
func (q *LocalQueue) Dequeue(ctx context.Context) (*Job, error) {
	select {
	case job := <-q.jobs:
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ack is a no-op. Channel receives already remove the job, so a
// worker crash loses at most the job it was holding.
func (q *LocalQueue) Ack(ctx context.Context, job *Job) error {
	return nil
}

// Depth reports the number of buffered jobs.
func (q *LocalQueue) Depth(ctx context.Context) (int64, error) {
	return int64(len(q.jobs)), nil
}
