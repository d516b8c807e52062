package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/internal/fields"
	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
	"github.com/tomasvidal/fieldforge-backend/pkg/redis"
)

// Service exposes product reads plus the field-definition import/export
// boundary. Definition sets are normalized on every write and cached per
// product.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	GetBasePrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	GetFieldDefinitions(ctx context.Context, productID uuid.UUID) ([]fields.Definition, error)
	SetFieldDefinitions(ctx context.Context, productID uuid.UUID, raw []fields.Definition) ([]fields.Definition, error)
	ExportFieldDefinitions(ctx context.Context, productID uuid.UUID) (json.RawMessage, error)
	ImportFieldDefinitions(ctx context.Context, productID uuid.UUID, doc json.RawMessage) ([]fields.Definition, error)
}

type service struct {
	repo     Repository
	cache    redis.DefinitionCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds a product service. The cache is optional; when nil every
// read goes to the repository.
func NewService(repo Repository, cache redis.DefinitionCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetBasePrice(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(int64(product.PriceCents), -2), nil
}

// GetFieldDefinitions returns the normalized definition set for a product.
// Variants resolve through their parent so every variant shares one schema.
func (s *service) GetFieldDefinitions(ctx context.Context, productID uuid.UUID) ([]fields.Definition, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ownerID := product.ID
	if product.ParentID != nil {
		ownerID = *product.ParentID
	}

	if cached, ok := s.cacheLookup(ctx, ownerID); ok {
		return cached, nil
	}

	defs := product.FieldDefinitions
	if product.ParentID != nil {
		parent, err := s.GetProduct(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		defs = parent.FieldDefinitions
	}

	normalized := fields.NormalizeAll(defs)
	s.cacheStore(ctx, ownerID, normalized)
	return normalized, nil
}

// SetFieldDefinitions normalizes and persists a definition set. Definitions
// whose label normalizes to empty are dropped, not flagged.
func (s *service) SetFieldDefinitions(ctx context.Context, productID uuid.UUID, raw []fields.Definition) ([]fields.Definition, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.ParentID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "field definitions belong to the parent product")
	}

	normalized := fields.NormalizeAll(raw)
	if dropped := len(raw) - len(normalized); dropped > 0 && s.logg != nil {
		s.logg.Warn(s.logg.WithProductID(ctx, productID.String()), fmt.Sprintf("dropped %d malformed field definitions", dropped))
	}

	if err := s.repo.UpdateFieldDefinitions(ctx, productID, normalized); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist field definitions")
	}
	s.cacheInvalidate(ctx, productID)
	return normalized, nil
}

// ExportFieldDefinitions serializes the normalized definition set to its JSON
// document form.
func (s *service) ExportFieldDefinitions(ctx context.Context, productID uuid.UUID) (json.RawMessage, error) {
	defs, err := s.GetFieldDefinitions(ctx, productID)
	if err != nil {
		return nil, err
	}
	doc, err := json.Marshal(defs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode field definitions")
	}
	return doc, nil
}

// ImportFieldDefinitions parses a JSON document and stores it as the product's
// definition set. Round-tripping through export reproduces an equivalent set.
func (s *service) ImportFieldDefinitions(ctx context.Context, productID uuid.UUID, doc json.RawMessage) ([]fields.Definition, error) {
	var raw []fields.Definition
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid field definition document")
	}
	return s.SetFieldDefinitions(ctx, productID, raw)
}

func (s *service) cacheLookup(ctx context.Context, ownerID uuid.UUID) ([]fields.Definition, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, s.cache.FieldDefinitionsKey(ownerID.String()))
	if err != nil {
		return nil, false
	}
	var defs []fields.Definition
	if err := json.Unmarshal([]byte(payload), &defs); err != nil {
		return nil, false
	}
	return defs, true
}

func (s *service) cacheStore(ctx context.Context, ownerID uuid.UUID, defs []fields.Definition) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(defs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.FieldDefinitionsKey(ownerID.String()), string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "field definition cache write failed")
	}
}

func (s *service) cacheInvalidate(ctx context.Context, ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.FieldDefinitionsKey(ownerID.String())); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "field definition cache invalidation failed")
	}
}
