package queue

import (
	"context"
	"errors"

	"events-api/internal/model"
)

var ErrQueueFull = errors.New("change queue is full")

type Delivery struct {
	Data *model.EventChange
	Ack  func()
	Nack func(requeue bool)
}

type ChangeQueue interface {
	// 發送異動到隊列
	Publish(ctx context.Context, change *model.EventChange) error
	// 訂閱異動隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type ChangeQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.EventChange
}

func NewChangeQueue(bufferSize int) ChangeQueue {
	return &ChangeQueueImpl{
		ch: make(chan *model.EventChange, bufferSize),
	}
}

// Publish never blocks the request path: a full buffer drops the change.
func (q *ChangeQueueImpl) Publish(ctx context.Context, change *model.EventChange) error {
	select {
	case q.ch <- change:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *ChangeQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-q.ch:
				if !ok {
					return
				}

				// 將原始 EventChange 包裝成 Delivery 格式給 Worker
				d := Delivery{
					Data: change,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							// 簡單模擬重回隊列；滿了就放棄
							select {
							case q.ch <- change:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
