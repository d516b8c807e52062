package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/internal/fields"
)

// CartItem persists one product line together with its field snapshots. The
// snapshots denormalize the field definitions in force at submission time.
type CartItem struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID            uuid.UUID         `gorm:"column:cart_id;type:uuid;not null"`
	ProductID         uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Quantity          int               `gorm:"column:quantity;not null"`
	UnitPriceCents    int               `gorm:"column:unit_price_cents;not null"`
	AdjustmentCents   int               `gorm:"column:adjustment_cents;not null;default:0"`
	LineSubtotalCents int               `gorm:"column:line_subtotal_cents;not null"`
	FieldSnapshots    []fields.Snapshot `gorm:"column:field_snapshots;type:jsonb;serializer:json"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
