package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderNote is one human-readable audit entry attached to an order.
type OrderNote struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	Author    string    `gorm:"column:author;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
