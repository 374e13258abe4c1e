package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisSequencer(t *testing.T) (*RedisSequencer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSequencer(client, ""), mr
}

func TestRedisSequencerPerUser(t *testing.T) {
	seq, mr := newRedisSequencer(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := seq.Next(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	value, err := mr.Get("paygate:order_seq:7")
	require.NoError(t, err)
	assert.Equal(t, "3", value)
}

func TestRedisSequencerConcurrent(t *testing.T) {
	seq, _ := newRedisSequencer(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := seq.Next(ctx, 1)
			assert.NoError(t, err)
			mu.Lock()
			seen[value] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 20)
}

func TestRedisSequencerUnavailable(t *testing.T) {
	seq, mr := newRedisSequencer(t)
	mr.Close()

	_, err := seq.Next(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to advance order sequence for user 1")
}
