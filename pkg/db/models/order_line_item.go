package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/internal/fields"
)

// OrderLineItem captures the snapshot of each item within an order. The field
// snapshot map is keyed by derived field key and is overwritten whole on edit;
// subtotal and total are kept equal at the line level.
type OrderLineItem struct {
	ID              uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID                  `gorm:"column:order_id;type:uuid;not null"`
	ProductID       *uuid.UUID                 `gorm:"column:product_id;type:uuid"`
	Name            string                     `gorm:"column:name;not null"`
	Qty             int                        `gorm:"column:qty;not null"`
	UnitPriceCents  int                        `gorm:"column:unit_price_cents;not null"`
	AdjustmentCents int                        `gorm:"column:adjustment_cents;not null;default:0"`
	SubtotalCents   int                        `gorm:"column:subtotal_cents;not null"`
	TotalCents      int                        `gorm:"column:total_cents;not null"`
	FieldSnapshots  map[string]fields.Snapshot `gorm:"column:field_snapshots;type:jsonb;serializer:json"`
	CreatedAt       time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
