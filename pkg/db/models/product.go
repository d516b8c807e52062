package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/internal/fields"
)

// Product is the purchasable record field definitions attach to. Variants
// reference their parent and resolve field definitions through it.
type Product struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParentID         *uuid.UUID          `gorm:"column:parent_id;type:uuid"`
	SKU              string              `gorm:"column:sku;not null"`
	Title            string              `gorm:"column:title;not null"`
	PriceCents       int                 `gorm:"column:price_cents;not null"`
	IsActive         bool                `gorm:"column:is_active;not null;default:true"`
	FieldDefinitions []fields.Definition `gorm:"column:field_definitions;type:jsonb;serializer:json"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
