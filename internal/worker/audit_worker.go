package worker

import (
	"context"

	"events-api/internal/model"
	"events-api/internal/queue"
	"events-api/pkg/logger"

	"go.uber.org/zap"
)

type AuditWorker interface {
	// 訂閱異動隊列
	Start(ctx context.Context) error
}

// AuditSink receives every change the worker consumes.
type AuditSink func(ctx context.Context, change *model.EventChange) error

type AuditWorkerImpl struct {
	queue queue.ChangeQueue
	sink  AuditSink
}

// NewAuditWorker 建立 worker；sink 為 nil 時只寫 log
func NewAuditWorker(changes queue.ChangeQueue, sink AuditSink) AuditWorker {
	if sink == nil {
		sink = LogChange
	}
	return &AuditWorkerImpl{
		queue: changes,
		sink:  sink,
	}
}

func (w *AuditWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if msg.Data == nil {
				msg.Nack(false)
				continue
			}
			if err := w.sink(ctx, msg.Data); err != nil {
				logger.WithComponent("audit").Warn("audit sink failed, will retry",
					zap.String("event_id", msg.Data.EventID),
					zap.Error(err),
				)
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

// LogChange 將異動寫入結構化 log
func LogChange(_ context.Context, change *model.EventChange) error {
	fields := []zap.Field{
		zap.String("change", string(change.Type)),
		zap.String("event_id", change.EventID),
		zap.Time("occurred_at", change.OccurredAt),
	}
	if change.Event != nil {
		fields = append(fields,
			zap.String("status", string(change.Event.Status)),
			zap.Time("updated_at", change.Event.UpdatedAt),
		)
	}
	if len(change.Fields) > 0 {
		fields = append(fields, zap.Strings("fields", change.Fields))
	}
	logger.WithComponent("audit").Info("event changed", fields...)
	return nil
}
