package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"events-api/internal/model"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type EventCache interface {
	// 讀取：cache 中沒有時回傳 ErrCacheMiss
	Get(ctx context.Context, id string) (*model.Event, error)
	// 寫入：整筆覆蓋並重設 TTL (使用Lua腳本確保原子性)
	Set(ctx context.Context, event *model.Event) error
	// 失效：刪除快取
	Invalidate(ctx context.Context, id string) error
}

type RedisEventCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) EventCache {
	return &RedisEventCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisEventCacheImpl) getKey(id string) string {
	return fmt.Sprintf("event:%s", id)
}

// 先刪除舊的 hash 再寫入，避免殘留欄位；TTL 與寫入在同一個腳本內完成
var setEventScript = redis.NewScript(`
	local key = KEYS[1]
	local ttl_ms = tonumber(ARGV[1])

	redis.call('DEL', key)
	for i = 2, #ARGV, 2 do
		redis.call('HSET', key, ARGV[i], ARGV[i + 1])
	end
	if ttl_ms > 0 then
		redis.call('PEXPIRE', key, ttl_ms)
	end
	return 1
`)

func (c *RedisEventCacheImpl) Get(ctx context.Context, id string) (*model.Event, error) {
	result, err := c.client.HGetAll(ctx, c.getKey(id)).Result()
	if err != nil {
		return nil, err
	}

	// 檢查 key 是否存在
	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	capacity, err := strconv.Atoi(result[model.FieldCapacity])
	if err != nil {
		return nil, fmt.Errorf("invalid capacity: %v", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, result[model.FieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt: %v", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, result[model.FieldUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid updatedAt: %v", err)
	}

	return &model.Event{
		ID:          result[model.FieldID],
		Title:       result[model.FieldTitle],
		Description: result[model.FieldDescription],
		Date:        result[model.FieldDate],
		Location:    result[model.FieldLocation],
		Capacity:    capacity,
		Organizer:   result[model.FieldOrganizer],
		Status:      model.EventStatus(result[model.FieldStatus]),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}

func (c *RedisEventCacheImpl) Set(ctx context.Context, event *model.Event) error {
	args := []any{
		c.ttl.Milliseconds(),
		model.FieldID, event.ID,
		model.FieldTitle, event.Title,
		model.FieldDescription, event.Description,
		model.FieldDate, event.Date,
		model.FieldLocation, event.Location,
		model.FieldCapacity, event.Capacity,
		model.FieldOrganizer, event.Organizer,
		model.FieldStatus, string(event.Status),
		model.FieldCreatedAt, event.CreatedAt.UTC().Format(time.RFC3339Nano),
		model.FieldUpdatedAt, event.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	return setEventScript.Run(ctx, c.client, []string{c.getKey(event.ID)}, args...).Err()
}

func (c *RedisEventCacheImpl) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.getKey(id)).Err()
}
