package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockscan/internal/core/domain"
)

func TestSnapshotCache_Freshness(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := newSnapshotCache(30*time.Second, func() time.Time { return now })

	_, ok := cache.fresh()
	assert.False(t, ok, "empty cache")
	_, ok = cache.stale()
	assert.False(t, ok)

	cache.put(snapshot{version: "1"})

	now = now.Add(29 * time.Second)
	snap, ok := cache.fresh()
	require.True(t, ok)
	assert.Equal(t, "1", snap.version)

	now = now.Add(time.Second)
	_, ok = cache.fresh()
	assert.False(t, ok, "expired at exactly ttl")

	snap, ok = cache.stale()
	require.True(t, ok)
	assert.Equal(t, "1", snap.version)
}

func TestSnapshotCache_FetchSharesConcurrentMisses(t *testing.T) {
	cache := newSnapshotCache(time.Minute, time.Now)

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (snapshot, error) {
		calls.Add(1)
		<-release
		return snapshot{version: "7"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := cache.fetch(context.Background(), load)
			assert.NoError(t, err)
			assert.Equal(t, "7", snap.version)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	snap, ok := cache.fresh()
	require.True(t, ok)
	assert.Equal(t, "7", snap.version)
}

func TestSnapshotCache_FetchDoesNotOverwriteNewerWrite(t *testing.T) {
	cache := newSnapshotCache(time.Minute, time.Now)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan snapshot)

	go func() {
		snap, _ := cache.fetch(context.Background(), func(context.Context) (snapshot, error) {
			close(started)
			<-release
			return snapshot{version: "old"}, nil
		})
		done <- snap
	}()

	<-started
	cache.put(snapshot{items: []domain.InventoryItem{{ID: "a"}}, version: "written"})
	close(release)

	fetched := <-done
	assert.Equal(t, "old", fetched.version)

	snap, ok := cache.fresh()
	require.True(t, ok)
	assert.Equal(t, "written", snap.version)
}

func TestSnapshotCache_FetchErrorKeepsSnapshot(t *testing.T) {
	cache := newSnapshotCache(time.Minute, time.Now)
	cache.put(snapshot{version: "1"})

	_, err := cache.fetch(context.Background(), func(context.Context) (snapshot, error) {
		return snapshot{}, errors.New("offline")
	})
	require.Error(t, err)

	snap, ok := cache.stale()
	require.True(t, ok)
	assert.Equal(t, "1", snap.version)
}
