package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestStores(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := CartKey("user-1")

			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, models.ErrNotFound)

			require.NoError(t, s.Set(ctx, key, []byte(`{"items":[]}`), 0))
			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.JSONEq(t, `{"items":[]}`, string(got))

			require.NoError(t, s.Delete(ctx, key))
			_, err = s.Get(ctx, key)
			assert.ErrorIs(t, err, models.ErrNotFound)

			// deleting an absent key is not an error
			assert.NoError(t, s.Delete(ctx, key))
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var cart models.Cart
	found, err := GetJSON(ctx, s, CartKey("guest"), &cart)
	require.NoError(t, err)
	assert.False(t, found)

	in := models.Cart{Items: []models.CartItem{{ProductID: "p1", Quantity: 2, Stock: 5}}}
	require.NoError(t, SetJSON(ctx, s, CartKey("guest"), in, 0))

	found, err = GetJSON(ctx, s, CartKey("guest"), &cart)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	require.NoError(t, s.Set(ctx, "broken", []byte("{"), 0))
	_, err = GetJSON(ctx, s, "broken", &cart)
	assert.Error(t, err)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, AuthKey("sid"), []byte("x"), time.Minute))
	_, err := s.Get(ctx, AuthKey("sid"))
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, AuthKey("sid"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Set(ctx, AuthKey("sid"), []byte("x"), time.Minute))
	assert.True(t, mr.Exists(AuthKey("sid")))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, AuthKey("sid"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "cart-storage:u1", CartKey("u1"))
	assert.Equal(t, "auth-storage:s1", AuthKey("s1"))
}
