package cache

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetInvalidate(t *testing.T) {
	m, err := mr.Run()
	assert.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	c := New(client, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, KeyProducts)
	assert.False(t, ok)

	c.Set(ctx, KeyProducts, []byte(`[{"id":"p1"}]`))
	got, ok := c.Get(ctx, KeyProducts)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[{"id":"p1"}]`), got)

	c.Invalidate(ctx, KeyProducts)
	_, ok = c.Get(ctx, KeyProducts)
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	m, err := mr.Run()
	assert.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	c := New(client, time.Second)
	ctx := context.Background()

	c.Set(ctx, KeyCategories, []byte(`[]`))
	m.FastForward(2 * time.Second)

	_, ok := c.Get(ctx, KeyCategories)
	assert.False(t, ok)
}

// With no Redis client every operation is a silent miss.
func TestCache_DisabledIsNoop(t *testing.T) {
	c := New(nil, time.Minute)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	c.Set(ctx, KeyPartners, []byte(`[]`))
	_, ok := c.Get(ctx, KeyPartners)
	assert.False(t, ok)
	c.Invalidate(ctx, KeyPartners)
}

// A dead Redis behaves like a disabled cache rather than an error source.
func TestCache_DeadBackendTreatedAsMiss(t *testing.T) {
	m, err := mr.Run()
	assert.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	c := New(client, time.Minute)
	m.Close()

	ctx := context.Background()
	c.Set(ctx, KeyProducts, []byte(`[]`))
	_, ok := c.Get(ctx, KeyProducts)
	assert.False(t, ok)
}
