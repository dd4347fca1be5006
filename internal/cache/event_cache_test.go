package cache_test

import (
	"context"
	"testing"
	"time"

	"events-api/internal/cache"
	"events-api/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, ttl time.Duration) (cache.EventCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisEventCache(client, ttl), mr
}

func sampleEvent() *model.Event {
	now := time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC)
	return &model.Event{
		ID:          "evt-1",
		Title:       "Go Meetup",
		Description: "Monthly meetup",
		Date:        "2024-06-01T18:00:00",
		Location:    "Taipei",
		Capacity:    120,
		Organizer:   "Gophers TW",
		Status:      model.EventStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now.Add(time.Minute),
	}
}

func TestEventCache_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Failed - Cache Miss", func(t *testing.T) {
		c, _ := setupCache(t, time.Minute)

		event, err := c.Get(ctx, "missing")

		assert.ErrorIs(t, err, cache.ErrCacheMiss)
		assert.Nil(t, event)
	})

	t.Run("Success", func(t *testing.T) {
		c, _ := setupCache(t, time.Minute)
		want := sampleEvent()
		require.NoError(t, c.Set(ctx, want))

		got, err := c.Get(ctx, want.ID)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Failed - Corrupt Entry", func(t *testing.T) {
		c, mr := setupCache(t, time.Minute)
		mr.HSet("event:bad", "capacity", "lots")

		_, err := c.Get(ctx, "bad")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, cache.ErrCacheMiss)
	})
}

func TestEventCache_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Sets TTL", func(t *testing.T) {
		c, mr := setupCache(t, 30*time.Second)
		require.NoError(t, c.Set(ctx, sampleEvent()))

		assert.Equal(t, 30*time.Second, mr.TTL("event:evt-1"))

		mr.FastForward(31 * time.Second)
		_, err := c.Get(ctx, "evt-1")
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
	})

	t.Run("Success - Overwrites Previous Entry", func(t *testing.T) {
		c, _ := setupCache(t, time.Minute)
		event := sampleEvent()
		require.NoError(t, c.Set(ctx, event))

		updated := *event
		updated.Title = "Renamed"
		updated.Status = model.EventStatusCancelled
		require.NoError(t, c.Set(ctx, &updated))

		got, err := c.Get(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, model.EventStatusCancelled, got.Status)
	})
}

func TestEventCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t, time.Minute)
	require.NoError(t, c.Set(ctx, sampleEvent()))

	require.NoError(t, c.Invalidate(ctx, "evt-1"))

	assert.False(t, mr.Exists("event:evt-1"))
	_, err := c.Get(ctx, "evt-1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	// invalidating an absent key is not an error
	assert.NoError(t, c.Invalidate(ctx, "evt-1"))
}
