package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_ReportsWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collate.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("initial"), 0o600))

	var changes atomic.Int32
	var gotPath atomic.Value
	w, err := New(dbPath, func(path string) {
		gotPath.Store(path)
		changes.Add(1)
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Give the watch time to establish before writing
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(dbPath, []byte("changed"), 0o600))

	assert.True(t, waitFor(t, func() bool { return changes.Load() >= 1 }, 3*time.Second),
		"expected a change callback after writing the database file")
	assert.Equal(t, dbPath, gotPath.Load())
}

func TestWatcher_ReportsWALWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collate.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0o600))

	var changes atomic.Int32
	w, err := New(dbPath, func(string) { changes.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal"), 0o600))

	assert.True(t, waitFor(t, func() bool { return changes.Load() >= 1 }, 3*time.Second),
		"expected a change callback after writing the WAL sidecar")
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collate.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0o600))

	var changes atomic.Int32
	w, err := New(dbPath, func(string) { changes.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	// Allow any stray event to surface
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, changes.Load())
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collate.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0o600))

	var changes atomic.Int32
	w, err := New(dbPath, func(string) { changes.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte{byte(i)}, 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	require.True(t, waitFor(t, func() bool { return changes.Load() >= 1 }, 3*time.Second))
	time.Sleep(300 * time.Millisecond)
	assert.LessOrEqual(t, changes.Load(), int32(3),
		"a burst of writes should collapse into a few callbacks, not one per write")
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "collate.db")

	w, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
