package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

// Order is the persisted checkout result; its status gates field edits.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	SubtotalCents int               `gorm:"column:subtotal_cents;not null;default:0"`
	TotalCents    int               `gorm:"column:total_cents;not null;default:0"`
	Items         []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
