package locks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "survey-1", 0)
	require.NoError(t, err)

	// Second acquire on the same name blocks until its context expires
	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(shortCtx, "survey-1", 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// After release the lock is free again
	release()
	release2, err := l.Acquire(ctx, "survey-1", 0)
	require.NoError(t, err)
	release2()
}

func TestLocalLocker_IndependentNames(t *testing.T) {
	l := NewLocalLocker()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	releaseA, err := l.Acquire(ctx, "survey-a", 0)
	require.NoError(t, err)
	defer releaseA()

	// A held lock on survey-a never blocks survey-b
	releaseB, err := l.Acquire(ctx, "survey-b", 0)
	require.NoError(t, err)
	releaseB()
}

func TestLocalLocker_ReleaseIdempotent(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "survey-1", 0)
	require.NoError(t, err)

	release()
	release() // second call is a no-op

	// Lock is still acquirable exactly once
	release2, err := l.Acquire(ctx, "survey-1", 0)
	require.NoError(t, err)
	release2()
}

func TestLocalLocker_EntriesCleanedUp(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "survey-1", 0)
	require.NoError(t, err)
	release()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries)
}

func TestLocalLocker_CancelledWaiterCleansUp(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "survey-1", 0)
	require.NoError(t, err)

	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(shortCtx, "survey-1", 0)
	require.Error(t, err)

	release()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries)
}

func TestLocalLocker_SerializesWriters(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	const writers = 20
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "shared", 0)
			if err != nil {
				return
			}
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, writers, counter)
}
