package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// 欄位名稱：JSON key、驗證錯誤欄位與 store attribute 共用
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldLocation    = "location"
	FieldCapacity    = "capacity"
	FieldOrganizer   = "organizer"
	FieldStatus      = "status"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusActive    EventStatus = "active"
	EventStatusInactive  EventStatus = "inactive"
)

// EventStatuses lists every accepted status in declaration order.
var EventStatuses = []EventStatus{
	EventStatusDraft,
	EventStatusPublished,
	EventStatusCancelled,
	EventStatusCompleted,
	EventStatusActive,
	EventStatusInactive,
}

// ParseEventStatus 大小寫敏感，只接受固定的六種狀態
func ParseEventStatus(s string) (EventStatus, bool) {
	for _, status := range EventStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// Event 活動模型
type Event struct {
	ID          string      `json:"id" dynamodbav:"eventId" db:"id"`
	Title       string      `json:"title" dynamodbav:"title" db:"title"`
	Description string      `json:"description" dynamodbav:"description" db:"description"`
	Date        string      `json:"date" dynamodbav:"date" db:"date"`
	Location    string      `json:"location" dynamodbav:"location" db:"location"`
	Capacity    int         `json:"capacity" dynamodbav:"capacity" db:"capacity"`
	Organizer   string      `json:"organizer" dynamodbav:"organizer" db:"organizer"`
	Status      EventStatus `json:"status" dynamodbav:"status" db:"status"`
	CreatedAt   time.Time   `json:"createdAt" dynamodbav:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" dynamodbav:"updatedAt" db:"updated_at"`
}

// EventFields holds already-validated values for a new event.
type EventFields struct {
	Title       string
	Description string
	Date        string
	Location    string
	Capacity    int
	Organizer   string
	Status      EventStatus
}

// NewEvent builds the full record; createdAt and updatedAt both take now.
func NewEvent(id string, f EventFields, now time.Time) *Event {
	status := f.Status
	if status == "" {
		status = EventStatusDraft
	}
	return &Event{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Date:        f.Date,
		Location:    f.Location,
		Capacity:    f.Capacity,
		Organizer:   f.Organizer,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Optional 記錄欄位是否出現在輸入中；Present=false 表示未提供，Null 表示明確給了 null。
// 型別不符時不回傳錯誤，改設 Invalid 並保留原始 JSON，交給驗證層與其他欄位錯誤一起回報。
type Optional[T any] struct {
	Value   T
	Present bool
	Null    bool
	Invalid bool
	Raw     json.RawMessage
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	o.Invalid = false
	o.Raw = nil
	if err := json.Unmarshal(data, &o.Value); err != nil {
		var zero T
		o.Value = zero
		o.Invalid = true
		o.Raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	switch {
	case !o.Present || o.Null:
		return []byte("null"), nil
	case o.Invalid:
		return o.Raw, nil
	}
	return json.Marshal(o.Value)
}

// IsZero lets `omitzero` drop fields that were never set.
func (o Optional[T]) IsZero() bool {
	return !o.Present
}

// EventPatch 更新請求：只有 Present 的欄位會被套用
type EventPatch struct {
	Title       Optional[string]      `json:"title,omitzero"`
	Description Optional[string]      `json:"description,omitzero"`
	Date        Optional[string]      `json:"date,omitzero"`
	Location    Optional[string]      `json:"location,omitzero"`
	Capacity    Optional[json.Number] `json:"capacity,omitzero"`
	Organizer   Optional[string]      `json:"organizer,omitzero"`
	Status      Optional[string]      `json:"status,omitzero"`
}

// Present returns the names of the fields the caller supplied, in a fixed order.
func (p EventPatch) Present() []string {
	fields := make([]string, 0, 7)
	if p.Title.Present {
		fields = append(fields, FieldTitle)
	}
	if p.Description.Present {
		fields = append(fields, FieldDescription)
	}
	if p.Date.Present {
		fields = append(fields, FieldDate)
	}
	if p.Location.Present {
		fields = append(fields, FieldLocation)
	}
	if p.Capacity.Present {
		fields = append(fields, FieldCapacity)
	}
	if p.Organizer.Present {
		fields = append(fields, FieldOrganizer)
	}
	if p.Status.Present {
		fields = append(fields, FieldStatus)
	}
	return fields
}

func (p EventPatch) IsEmpty() bool {
	return len(p.Present()) == 0
}

// EventCreate 建立請求；自訂 ID 可用 id 或舊版的 eventId
type EventCreate struct {
	ID      Optional[string] `json:"id,omitzero"`
	EventID Optional[string] `json:"eventId,omitzero"`
	EventPatch
}

// CustomID returns the caller-supplied identifier field, preferring id over eventId.
func (c EventCreate) CustomID() Optional[string] {
	if c.ID.Present {
		return c.ID
	}
	return c.EventID
}

// EventMutation is the validated field-level change set applied by an update.
// Nil fields are left untouched; UpdatedAt is always written.
type EventMutation struct {
	Title       *string
	Description *string
	Date        *string
	Location    *string
	Capacity    *int
	Organizer   *string
	Status      *EventStatus
	UpdatedAt   time.Time
}

// Fields returns the names of the mutated attributes, excluding updatedAt.
func (m EventMutation) Fields() []string {
	fields := make([]string, 0, 7)
	if m.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if m.Description != nil {
		fields = append(fields, FieldDescription)
	}
	if m.Date != nil {
		fields = append(fields, FieldDate)
	}
	if m.Location != nil {
		fields = append(fields, FieldLocation)
	}
	if m.Capacity != nil {
		fields = append(fields, FieldCapacity)
	}
	if m.Organizer != nil {
		fields = append(fields, FieldOrganizer)
	}
	if m.Status != nil {
		fields = append(fields, FieldStatus)
	}
	return fields
}

// Apply returns a copy of e with the mutation applied.
func (m EventMutation) Apply(e *Event) *Event {
	out := *e
	if m.Title != nil {
		out.Title = *m.Title
	}
	if m.Description != nil {
		out.Description = *m.Description
	}
	if m.Date != nil {
		out.Date = *m.Date
	}
	if m.Location != nil {
		out.Location = *m.Location
	}
	if m.Capacity != nil {
		out.Capacity = *m.Capacity
	}
	if m.Organizer != nil {
		out.Organizer = *m.Organizer
	}
	if m.Status != nil {
		out.Status = *m.Status
	}
	out.UpdatedAt = m.UpdatedAt
	return &out
}

// ListParams 列表查詢參數；Limit 為 nil 時使用預設值
type ListParams struct {
	Status    string
	Organizer string
	Limit     *int
}
