package model

import "time"

type OrderEventType string

const (
	EventOrderCreated     OrderEventType = "order.created"
	EventOrderLineAdded   OrderEventType = "order.line_added"
	EventOrderLineRemoved OrderEventType = "order.line_removed"
	EventOrderDeleted     OrderEventType = "order.deleted"
)

// OutboxEvent is written in the same transaction as the order change it
// describes and relayed to a broker afterwards.
type OutboxEvent struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//order code, used as the message key
	AggregateID string `gorm:"type:varchar(40);not null;index" json:"aggregate_id"`

	EventType OrderEventType `gorm:"type:varchar(50);not null" json:"event_type"`

	//JSON
	Payload string `gorm:"type:text;not null" json:"payload"`

	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`
}
