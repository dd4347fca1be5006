package repository

import (
	"context"

	"events-api/internal/filter"
	"events-api/internal/model"
)

// EventRepository is the contract the service uses against the single-table store.
//
// Get returns apperrors.ErrEventNotFound when the id is absent. Put overwrites
// unconditionally. Update and Delete are conditional on the item existing and
// return ErrEventNotFound otherwise. Scan returns at most limit matching
// events in store order. Every other failure is an *apperrors.StoreError.
type EventRepository interface {
	Get(ctx context.Context, id string) (*model.Event, error)
	Put(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, id string, mutation model.EventMutation) (*model.Event, error)
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context, predicate filter.Predicate, limit int) ([]*model.Event, error)
}
