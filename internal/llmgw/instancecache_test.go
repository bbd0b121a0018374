package llmgw

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstanceCacheGetOrCreateConstructsOnce(t *testing.T) {
	cache := newInstanceCache(2)
	calls := 0
	create := func() (*instance, error) {
		calls++
		return &instance{model: "m"}, nil
	}

	key := instanceKey{model: "m", task: "hints"}
	first, err := cache.getOrCreate(key, create)
	require.NoError(t, err)
	second, err := cache.getOrCreate(key, create)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, calls)
}

func TestInstanceCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := newInstanceCache(2)
	mk := func(name string) func() (*instance, error) {
		return func() (*instance, error) { return &instance{model: name}, nil }
	}

	keyA := instanceKey{model: "a", task: "t"}
	keyB := instanceKey{model: "b", task: "t"}
	keyC := instanceKey{model: "c", task: "t"}

	_, err := cache.getOrCreate(keyA, mk("a"))
	require.NoError(t, err)
	_, err = cache.getOrCreate(keyB, mk("b"))
	require.NoError(t, err)

	// touch a so b becomes the least-recently-used entry
	_, err = cache.getOrCreate(keyA, mk("a"))
	require.NoError(t, err)

	_, err = cache.getOrCreate(keyC, mk("c"))
	require.NoError(t, err)

	require.Equal(t, 2, cache.size())
	_, ok := cache.get(keyB)
	require.False(t, ok, "expected b to be evicted as least recently used")
	_, ok = cache.get(keyA)
	require.True(t, ok)
	_, ok = cache.get(keyC)
	require.True(t, ok)
}

func TestInstanceCachePropagatesCreateError(t *testing.T) {
	cache := newInstanceCache(2)
	boom := errors.New("boom")

	_, err := cache.getOrCreate(instanceKey{model: "m"}, func() (*instance, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, cache.size())
}

func TestInstanceCacheDefaultsMaxSize(t *testing.T) {
	cache := newInstanceCache(0)
	require.Equal(t, 32, cache.maxSize)
}
