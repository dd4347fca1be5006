package repository

import (
	"context"
	"errors"

	"events-api/internal/cache"
	"events-api/internal/filter"
	"events-api/internal/model"
	"events-api/pkg/logger"

	"go.uber.org/zap"
)

// CachedEventRepositoryImpl reads through and writes through an EventCache.
// The store stays authoritative: cache failures are logged, never returned.
type CachedEventRepositoryImpl struct {
	repo  EventRepository
	cache cache.EventCache
}

func NewCachedEventRepository(repo EventRepository, eventCache cache.EventCache) EventRepository {
	return &CachedEventRepositoryImpl{
		repo:  repo,
		cache: eventCache,
	}
}

func (r *CachedEventRepositoryImpl) Get(ctx context.Context, id string) (*model.Event, error) {
	event, err := r.cache.Get(ctx, id)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.WithComponent("cache").Warn("cache read failed", zap.String("event_id", id), zap.Error(err))
	}

	event, err = r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, event)
	return event, nil
}

func (r *CachedEventRepositoryImpl) Put(ctx context.Context, event *model.Event) error {
	if err := r.repo.Put(ctx, event); err != nil {
		return err
	}
	r.fill(ctx, event)
	return nil
}

func (r *CachedEventRepositoryImpl) Update(ctx context.Context, id string, mutation model.EventMutation) (*model.Event, error) {
	event, err := r.repo.Update(ctx, id, mutation)
	if err != nil {
		// 失敗時也清掉快取，避免 store 已刪除但快取仍在
		r.invalidate(ctx, id)
		return nil, err
	}
	r.fill(ctx, event)
	return event, nil
}

func (r *CachedEventRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.repo.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

// Scan always goes to the store; list results are not cached.
func (r *CachedEventRepositoryImpl) Scan(ctx context.Context, predicate filter.Predicate, limit int) ([]*model.Event, error) {
	return r.repo.Scan(ctx, predicate, limit)
}

func (r *CachedEventRepositoryImpl) fill(ctx context.Context, event *model.Event) {
	if err := r.cache.Set(ctx, event); err != nil {
		logger.WithComponent("cache").Warn("cache write failed", zap.String("event_id", event.ID), zap.Error(err))
	}
}

func (r *CachedEventRepositoryImpl) invalidate(ctx context.Context, id string) {
	if err := r.cache.Invalidate(ctx, id); err != nil {
		logger.WithComponent("cache").Warn("cache invalidate failed", zap.String("event_id", id), zap.Error(err))
	}
}
