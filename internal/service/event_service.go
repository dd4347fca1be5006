package service

import (
	"context"
	"time"

	"events-api/internal/filter"
	"events-api/internal/model"
	"events-api/internal/queue"
	"events-api/internal/repository"
	"events-api/internal/validation"
	"events-api/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	Create(ctx context.Context, in model.EventCreate) (*model.Event, error)
	List(ctx context.Context, params model.ListParams) ([]*model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventServiceImpl struct {
	repo    repository.EventRepository
	changes queue.ChangeQueue
	now     func() time.Time
	newID   func() string
}

type Option func(*EventServiceImpl)

// WithClock 替換時間來源（測試用）
func WithClock(now func() time.Time) Option {
	return func(s *EventServiceImpl) { s.now = now }
}

// WithIDGenerator 替換 ID 產生器（測試用）
func WithIDGenerator(newID func() string) Option {
	return func(s *EventServiceImpl) { s.newID = newID }
}

// NewEventService 建立 service；changes 可為 nil，表示不發布異動
func NewEventService(repo repository.EventRepository, changes queue.ChangeQueue, opts ...Option) EventService {
	s := &EventServiceImpl{
		repo:    repo,
		changes: changes,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamps are stored with microsecond precision by every backend
func (s *EventServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *EventServiceImpl) Create(ctx context.Context, in model.EventCreate) (*model.Event, error) {
	id, fields, err := validation.Create(in)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = s.newID()
	}

	event := model.NewEvent(id, fields, s.timestamp())
	if err := s.repo.Put(ctx, event); err != nil {
		return nil, err
	}

	s.publish(ctx, model.NewEventChange(model.ChangeCreated, event, s.timestamp()))
	return event, nil
}

func (s *EventServiceImpl) List(ctx context.Context, params model.ListParams) ([]*model.Event, error) {
	limit, err := validation.Limit(params.Limit)
	if err != nil {
		return nil, err
	}
	status, err := validation.StatusFilter(params.Status)
	if err != nil {
		return nil, err
	}
	return s.repo.Scan(ctx, filter.FromParams(status, params.Organizer), limit)
}

func (s *EventServiceImpl) Get(ctx context.Context, id string) (*model.Event, error) {
	if err := validation.Identifier(id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *EventServiceImpl) Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	if err := validation.Identifier(id); err != nil {
		return nil, err
	}
	// 欄位驗證在任何 store 呼叫之前完成
	mutation, err := ValidatePatch(patch)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Update(ctx, id, Stamp(existing, mutation, s.timestamp()))
	if err != nil {
		return nil, err
	}

	change := model.NewEventChange(model.ChangeUpdated, event, s.timestamp())
	change.Fields = mutation.Fields()
	s.publish(ctx, change)
	return event, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id string) error {
	if err := validation.Identifier(id); err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, model.NewEventChange(model.ChangeDeleted, existing, s.timestamp()))
	return nil
}

// publish 發布異動；失敗只記 log，不影響已完成的寫入
func (s *EventServiceImpl) publish(ctx context.Context, change *model.EventChange) {
	if s.changes == nil {
		return
	}
	if err := s.changes.Publish(ctx, change); err != nil {
		logger.WithComponent("service").Warn("publish event change failed",
			zap.String("change", string(change.Type)),
			zap.String("event_id", change.EventID),
			zap.Error(err),
		)
	}
}
