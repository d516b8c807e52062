package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

// Repository is the persistence surface for cart records and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	FindByID(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, cart *models.CartRecord) error
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) FindByID(ctx context.Context, cartID uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.CartRecord) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}
