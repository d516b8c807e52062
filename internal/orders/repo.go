package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
)

// Repository is the persistence surface for orders, their line items, and the
// audit note sink.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindLineItem(ctx context.Context, lineID uuid.UUID) (*models.OrderLineItem, error)
	FindLineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderLineItem, error)
	UpdateLineItem(ctx context.Context, line *models.OrderLineItem) error
	UpdateOrderTotals(ctx context.Context, orderID uuid.UUID, subtotalCents, totalCents int) error
	AddNote(ctx context.Context, note *models.OrderNote) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindLineItem(ctx context.Context, lineID uuid.UUID) (*models.OrderLineItem, error) {
	var line models.OrderLineItem
	err := r.db.WithContext(ctx).
		Where("id = ?", lineID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindLineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderLineItem, error) {
	var items []models.OrderLineItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateLineItem(ctx context.Context, line *models.OrderLineItem) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Where("id = ?", line.ID).
		Select("adjustment_cents", "subtotal_cents", "total_cents", "field_snapshots").
		Updates(line).Error
}

func (r *repository) UpdateOrderTotals(ctx context.Context, orderID uuid.UUID, subtotalCents, totalCents int) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"subtotal_cents": subtotalCents,
			"total_cents":    totalCents,
		}).Error
}

func (r *repository) AddNote(ctx context.Context, note *models.OrderNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}
