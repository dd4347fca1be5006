package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"events-api/internal/model"
	"events-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey         = "events:changes"
	ConsumerGroupName = "event-auditors"

	consumerPrefix = "auditor"
	changeField    = "change"
	batchSize      = 10
)

// StreamOptions 控制 change stream 的重領與修剪行為，零值欄位使用預設。
type StreamOptions struct {
	ReclaimAfter  time.Duration // pending 超過此時間才重新領回
	MaxDeliveries int           // 投遞次數達上限即 ack 丟棄
	PollTimeout   time.Duration // XREADGROUP BLOCK
	MaxLen        int64         // MAXLEN ~，負值不修剪
}

func (o StreamOptions) withDefaults() StreamOptions {
	if o.ReclaimAfter <= 0 {
		o.ReclaimAfter = 5 * time.Second
	}
	if o.MaxDeliveries <= 0 {
		o.MaxDeliveries = 5
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = 2 * time.Second
	}
	if o.MaxLen < 0 {
		o.MaxLen = 0
	} else if o.MaxLen == 0 {
		o.MaxLen = 100000
	}
	return o
}

// RedisChangeStream 以 consumer group 消費 events:changes。
// 單一 goroutine 交替執行 XREADGROUP 與 XAUTOCLAIM。
type RedisChangeStream struct {
	rdb      *redis.Client
	consumer string
	opts     StreamOptions
	log      *zap.Logger
}

func NewRedisChangeStream(ctx context.Context, rdb *redis.Client, consumerID string, opts StreamOptions) (*RedisChangeStream, error) {
	if consumerID == "" {
		consumerID = uuid.NewString()
	}
	s := &RedisChangeStream{
		rdb:      rdb,
		consumer: consumerPrefix + ":" + consumerID,
		opts:     opts.withDefaults(),
		log:      logger.WithComponent("change_stream"),
	}
	err := rdb.XGroupCreateMkStream(ctx, StreamKey, ConsumerGroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}
	return s, nil
}

func (s *RedisChangeStream) Publish(ctx context.Context, change *model.EventChange) error {
	body, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: StreamKey,
		Values: []interface{}{changeField, string(body)},
	}
	if s.opts.MaxLen > 0 {
		args.MaxLen, args.Approx = s.opts.MaxLen, true
	}
	return s.rdb.XAdd(ctx, args).Err()
}

func (s *RedisChangeStream) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go s.consume(ctx, out)
	return out, nil
}

func (s *RedisChangeStream) consume(ctx context.Context, out chan<- Delivery) {
	defer close(out)
	nextReclaim := time.Now().Add(s.opts.ReclaimAfter)
	cursor := "0-0"
	for ctx.Err() == nil {
		if !time.Now().Before(nextReclaim) {
			var msgs []redis.XMessage
			msgs, cursor = s.reclaim(ctx, cursor)
			if !s.emit(ctx, out, s.dropExhausted(ctx, msgs)) {
				return
			}
			nextReclaim = time.Now().Add(s.opts.ReclaimAfter)
		}
		if !s.emit(ctx, out, s.read(ctx)) {
			return
		}
	}
}

// read 只取 ">" 新訊息；Nack(requeue) 的訊息留在 PEL 等 reclaim。
func (s *RedisChangeStream) read(ctx context.Context) []redis.XMessage {
	res, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroupName,
		Consumer: s.consumer,
		Streams:  []string{StreamKey, ">"},
		Count:    batchSize,
		Block:    s.opts.PollTimeout,
	}).Result()
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil), ctx.Err() != nil:
		return nil
	default:
		s.log.Error("read change stream failed", zap.Error(err))
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return nil
	}
	var msgs []redis.XMessage
	for _, st := range res {
		msgs = append(msgs, st.Messages...)
	}
	return msgs
}

func (s *RedisChangeStream) reclaim(ctx context.Context, cursor string) ([]redis.XMessage, string) {
	msgs, next, err := s.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   StreamKey,
		Group:    ConsumerGroupName,
		Consumer: s.consumer,
		MinIdle:  s.opts.ReclaimAfter,
		Start:    cursor,
		Count:    batchSize,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		if ctx.Err() == nil {
			s.log.Error("reclaim pending changes failed", zap.Error(err))
		}
		return nil, cursor
	}
	if next == "" {
		next = "0-0"
	}
	return msgs, next
}

// dropExhausted 查一次 PEL 範圍，投遞次數達上限者 ack 丟棄。
func (s *RedisChangeStream) dropExhausted(ctx context.Context, msgs []redis.XMessage) []redis.XMessage {
	if len(msgs) == 0 {
		return nil
	}
	pending, err := s.rdb.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: StreamKey,
		Group:  ConsumerGroupName,
		Start:  msgs[0].ID,
		End:    msgs[len(msgs)-1].ID,
		Count:  int64(len(msgs)),
	}).Result()
	if err != nil {
		s.log.Warn("inspect pending changes failed", zap.Error(err))
		return msgs
	}
	deliveries := make(map[string]int64, len(pending))
	for _, p := range pending {
		deliveries[p.ID] = p.RetryCount
	}
	kept := msgs[:0]
	for _, m := range msgs {
		if n := deliveries[m.ID]; n >= int64(s.opts.MaxDeliveries) {
			s.log.Warn("dropping change after max deliveries", zap.String("message_id", m.ID), zap.Int64("deliveries", n))
			s.ack(ctx, m.ID)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// emit 回傳 false 表示 ctx 已取消。
func (s *RedisChangeStream) emit(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage) bool {
	for _, m := range msgs {
		change, err := decodeChange(m)
		if err != nil {
			s.log.Warn("dropping undecodable change", zap.String("message_id", m.ID), zap.Error(err))
			s.ack(ctx, m.ID)
			continue
		}
		select {
		case out <- s.delivery(ctx, m.ID, change):
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func (s *RedisChangeStream) delivery(ctx context.Context, id string, change *model.EventChange) Delivery {
	return Delivery{
		Data: change,
		Ack:  func() { s.ack(ctx, id) },
		Nack: func(requeue bool) {
			if !requeue {
				s.ack(ctx, id)
			}
		},
	}
}

func (s *RedisChangeStream) ack(ctx context.Context, id string) {
	if err := s.rdb.XAck(ctx, StreamKey, ConsumerGroupName, id).Err(); err != nil {
		s.log.Error("ack change failed", zap.String("message_id", id), zap.Error(err))
	}
}

func decodeChange(m redis.XMessage) (*model.EventChange, error) {
	raw, ok := m.Values[changeField].(string)
	if !ok {
		return nil, fmt.Errorf("missing %q field", changeField)
	}
	var change model.EventChange
	if err := json.Unmarshal([]byte(raw), &change); err != nil {
		return nil, err
	}
	return &change, nil
}
