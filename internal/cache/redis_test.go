package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zombie-01/tire/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return c, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	products := []domain.Product{
		{ID: "1", Name: "Michelin Primacy", Price: 450000},
		{ID: "2", Name: "Bridgestone Turanza", Price: 380000},
	}
	data, err := json.Marshal(products)
	require.NoError(t, err)
	require.NoError(t, mr.Set(productsKey, string(data)))

	result, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "Michelin Primacy", result[0].Name)
}

func TestGet_CacheMiss(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := c.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(productsKey, `[{"id":`))

	_, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_ThenGetRoundtrip(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	products := []domain.Product{{ID: "1", Name: "Hankook Kinergy", Price: 220000}}

	require.NoError(t, c.Set(ctx, products))

	result, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(220000), result[0].Price)
}

func TestInvalidate(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, []domain.Product{{ID: "1"}}))
	require.NoError(t, c.Invalidate(ctx))

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
