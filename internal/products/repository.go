package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/internal/fields"
	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
)

// Repository is the persistence surface for products and their field
// definition documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateFieldDefinitions(ctx context.Context, id uuid.UUID, defs []fields.Definition) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) UpdateFieldDefinitions(ctx context.Context, id uuid.UUID, defs []fields.Definition) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Select("field_definitions").
		Updates(&models.Product{FieldDefinitions: defs}).Error
}
