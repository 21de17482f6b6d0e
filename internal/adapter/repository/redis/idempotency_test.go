package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err())

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "cached", string(resp))
}

func TestIdempotencyStore_CheckAndSetLocksNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, resp)

	val, err := mr.Get(store.prefix + "pending")
	require.NoError(t, err)
	assert.Equal(t, ProcessingMarker, val)
	assert.Equal(t, time.Minute, mr.TTL(store.prefix+"pending"))

	exists, resp, err = store.CheckAndSet(ctx, "pending", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists, "second caller must see the in-flight marker")
	assert.Equal(t, ProcessingMarker, string(resp))
}

func TestIdempotencyStore_CheckAndSetStoresResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)

	exists, _, err := store.CheckAndSet(context.Background(), "with-body", []byte(`{"id":1}`), time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)

	val, err := mr.Get(store.prefix + "with-body")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, val)
}

func TestIdempotencyStore_Update(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "complete", []byte("done"), time.Minute))

	val, err := client.Get(ctx, store.prefix+"complete").Result()
	require.NoError(t, err)
	assert.Equal(t, "done", val)
}

func TestIdempotencyStore_Release(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "failed", nil, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "failed"))
	assert.False(t, mr.Exists(store.prefix+"failed"))

	exists, _, err := store.CheckAndSet(ctx, "failed", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists, "released key can be claimed again")
}

func TestIdempotencyStore_KeysExpire(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "short", []byte("done"), time.Second))
	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "short", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIdempotencyStore_ConnectionFailure(t *testing.T) {
	client, mr := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	mr.Close()

	_, _, err := store.CheckAndSet(context.Background(), "down", nil, time.Minute)
	assert.Error(t, err)
}
