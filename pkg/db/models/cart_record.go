package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

// CartRecord is the active cart a shopper builds lines into.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Status    enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
