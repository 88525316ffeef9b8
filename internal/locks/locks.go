// Package locks serializes grouped-result edits per survey.
//
// Rename and move operations follow a read-modify-write cycle, so two
// editors touching the same survey must take turns. The version check
// in the store catches collisions either way; holding a lock first
// keeps well-behaved clients from burning their retries against each
// other.
package locks

import (
	"context"
	"sync"
	"time"
)

// Release relinquishes a held lock. Calling it more than once is safe.
type Release func()

// Locker grants exclusive per-name holds. Acquire blocks until the
// lock is free or ctx is done.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (Release, error)
}

// LocalLocker implements Locker with in-process keyed semaphores. It
// serves single-node deployments where every editor shares this
// process. The ttl is ignored because a dead process drops its locks
// with it.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

type localEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker creates an empty local locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{entries: make(map[string]*localEntry)}
}

// Acquire blocks until the named lock is free or ctx is done.
func (l *LocalLocker) Acquire(ctx context.Context, name string, _ time.Duration) (Release, error) {
	l.mu.Lock()
	e, ok := l.entries[name]
	if !ok {
		e = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[name] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				l.unref(name, e)
			})
		}, nil
	case <-ctx.Done():
		l.unref(name, e)
		return nil, ctx.Err()
	}
}

// unref drops one reference and removes the entry once nobody holds or
// waits on it, so the map does not grow with every survey ever edited.
func (l *LocalLocker) unref(name string, e *localEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, name)
	}
	l.mu.Unlock()
}
