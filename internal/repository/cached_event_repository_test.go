package repository_test

import (
	"context"
	"testing"
	"time"

	"events-api/internal/cache"
	"events-api/internal/filter"
	"events-api/internal/model"
	"events-api/internal/repository"
	"events-api/internal/repository/mocks"
	apperrors "events-api/pkg/app_errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCachedRepository(t *testing.T) (repository.EventRepository, *mocks.MockEventRepository, cache.EventCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	eventCache := cache.NewRedisEventCache(client, time.Minute)
	inner := mocks.NewMockEventRepository(t)
	return repository.NewCachedEventRepository(inner, eventCache), inner, eventCache, mr
}

func TestCachedEventRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Reads Through Once", func(t *testing.T) {
		repo, inner, _, _ := setupCachedRepository(t)
		want := testEvent("e1")
		inner.EXPECT().Get(ctx, "e1").Return(want, nil).Once()

		first, err := repo.Get(ctx, "e1")
		require.NoError(t, err)
		second, err := repo.Get(ctx, "e1")
		require.NoError(t, err)

		assert.Equal(t, want, first)
		assert.Equal(t, want, second)
	})

	t.Run("Success - Cache Down Falls Back To Store", func(t *testing.T) {
		repo, inner, _, mr := setupCachedRepository(t)
		want := testEvent("e1")
		mr.Close()
		inner.EXPECT().Get(ctx, "e1").Return(want, nil).Once()

		got, err := repo.Get(ctx, "e1")

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		repo, inner, _, mr := setupCachedRepository(t)
		inner.EXPECT().Get(ctx, "missing").Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := repo.Get(ctx, "missing")

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		assert.False(t, mr.Exists("event:missing"))
	})
}

func TestCachedEventRepository_Put(t *testing.T) {
	ctx := context.Background()
	repo, inner, eventCache, _ := setupCachedRepository(t)
	event := testEvent("e1")
	inner.EXPECT().Put(ctx, event).Return(nil).Once()

	require.NoError(t, repo.Put(ctx, event))

	cached, err := eventCache.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, event, cached)
}

func TestCachedEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Refreshes Entry", func(t *testing.T) {
		repo, inner, eventCache, _ := setupCachedRepository(t)
		original := testEvent("e1")
		require.NoError(t, eventCache.Set(ctx, original))

		title := "Renamed"
		mutation := model.EventMutation{Title: &title, UpdatedAt: original.UpdatedAt.Add(time.Second)}
		updated := mutation.Apply(original)
		inner.EXPECT().Update(ctx, "e1", mutation).Return(updated, nil).Once()

		_, err := repo.Update(ctx, "e1", mutation)
		require.NoError(t, err)

		cached, err := eventCache.Get(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", cached.Title)
	})

	t.Run("Failed - Drops Stale Entry", func(t *testing.T) {
		repo, inner, eventCache, _ := setupCachedRepository(t)
		require.NoError(t, eventCache.Set(ctx, testEvent("e1")))
		inner.EXPECT().Update(ctx, "e1", mock.Anything).Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := repo.Update(ctx, "e1", model.EventMutation{})

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		_, err = eventCache.Get(ctx, "e1")
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
	})
}

func TestCachedEventRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, inner, eventCache, _ := setupCachedRepository(t)
	require.NoError(t, eventCache.Set(ctx, testEvent("e1")))
	inner.EXPECT().Delete(ctx, "e1").Return(nil).Once()

	require.NoError(t, repo.Delete(ctx, "e1"))

	_, err := eventCache.Get(ctx, "e1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCachedEventRepository_Scan(t *testing.T) {
	ctx := context.Background()
	repo, inner, _, mr := setupCachedRepository(t)
	p := filter.And(filter.StatusEquals(model.EventStatusActive))
	inner.EXPECT().Scan(ctx, mock.Anything, 10).Return([]*model.Event{testEvent("a")}, nil).Once()

	events, err := repo.Scan(ctx, p, 10)

	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Empty(t, mr.Keys())
}
