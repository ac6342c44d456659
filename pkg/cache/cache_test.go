package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetNX(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	ok, err := c.SetNX(ctx, "lease:1", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "lease:1", []byte("2"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Del(ctx, "lease:1"))
	ok, _ = c.SetNX(ctx, "lease:1", []byte("3"), time.Minute)
	assert.True(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	ok, _ := c.SetNX(ctx, "k", []byte("v"), 20*time.Millisecond)
	require.True(t, ok)
	time.Sleep(40 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	ok, _ = c.SetNX(ctx, "k", []byte("v"), time.Minute)
	assert.True(t, ok)
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestCachedQuery(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	calls := 0
	q := NewCachedQuery(c, func(params ...any) string { return "item:" + params[0].(string) },
		func(ctx context.Context) (*item, error) {
			calls++
			return &item{ID: 1, Name: "checkout"}, nil
		}, WithTTL[*item](time.Minute))

	for i := 0; i < 3; i++ {
		v, err := q.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "checkout", v.Name)
	}
	assert.Equal(t, 1, calls)

	require.NoError(t, q.Invalidate(ctx, "1"))
	_, _ = q.Get(ctx, "1")
	assert.Equal(t, 2, calls)
}

func TestCachedQueryPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	q := NewCachedQuery(NewMemoryCache(), func(...any) string { return "k" },
		func(context.Context) (*item, error) { return nil, boom })
	_, err := q.Get(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRedisDefaults(t *testing.T) {
	var r Redis
	r.SetDefaults()
	assert.Equal(t, TypeMemory, r.Type)
	assert.Equal(t, 6379, r.Port)
}
