package model

import "time"

type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// EventChange 活動異動通知，成功寫入 store 後發布
type EventChange struct {
	Type       ChangeType `json:"type"`
	EventID    string     `json:"eventId"`
	Event      *Event     `json:"event,omitempty"`
	Fields     []string   `json:"fields,omitempty"` // updated 時為實際寫入的欄位
	OccurredAt time.Time  `json:"occurredAt"`
}

func NewEventChange(t ChangeType, e *Event, at time.Time) *EventChange {
	change := &EventChange{Type: t, EventID: e.ID, OccurredAt: at}
	if t != ChangeDeleted {
		change.Event = e
	}
	return change
}
