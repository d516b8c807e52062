package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/internal/fields"
	"github.com/tomasvidal/fieldforge-backend/internal/products"
	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service builds cart lines out of submitted field values.
type Service interface {
	QuoteLine(ctx context.Context, input QuoteInput) (*LineQuote, error)
	AttachLine(ctx context.Context, userID uuid.UUID, input AttachInput) (*models.CartItem, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products products.Service
	pipeline *metrics.Pipeline
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, productSvc products.Service, pipeline *metrics.Pipeline) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if productSvc == nil {
		return nil, fmt.Errorf("product service required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: productSvc,
		pipeline: pipeline,
	}, nil
}

// QuoteInput carries one prospective cart line for live price feedback.
type QuoteInput struct {
	ProductID uuid.UUID
	Quantity  int
	Values    fields.Values
}

// AttachInput carries the payload persisted as one cart line.
type AttachInput struct {
	ProductID uuid.UUID
	Quantity  int
	Values    fields.Values
}

// LineQuote is the computed price preview for a prospective line. Nothing is
// persisted for a quote.
type LineQuote struct {
	UnitPriceCents    int               `json:"unit_price_cents"`
	AdjustmentCents   int               `json:"adjustment_cents"`
	AdjustedUnitCents int               `json:"adjusted_unit_cents"`
	LineSubtotalCents int               `json:"line_subtotal_cents"`
	Snapshots         []fields.Snapshot `json:"snapshots"`
}

// QuoteLine runs the full pipeline against the displayed unit price without
// writing anything. Validation is fail-soft so the shopper sees every problem
// at once.
func (s *service) QuoteLine(ctx context.Context, input QuoteInput) (*LineQuote, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, defs, err := s.loadProductAndDefs(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	basePrice := decimal.New(int64(product.PriceCents), -2)
	result, err := fields.Synchronize(defs, input.Values, basePrice, false)
	if err != nil {
		return nil, s.validationError(err)
	}
	s.observeSync("quote")

	adjustmentCents := int(fields.CentsOf(result.Adjustment))
	adjustedUnit := product.PriceCents + adjustmentCents
	return &LineQuote{
		UnitPriceCents:    product.PriceCents,
		AdjustmentCents:   adjustmentCents,
		AdjustedUnitCents: adjustedUnit,
		LineSubtotalCents: adjustedUnit * input.Quantity,
		Snapshots:         result.Snapshots,
	}, nil
}

// AttachLine validates the submission and persists one cart line with its
// field snapshots. The snapshot set is computed in full before the write.
func (s *service) AttachLine(ctx context.Context, userID uuid.UUID, input AttachInput) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, defs, err := s.loadProductAndDefs(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	basePrice := decimal.New(int64(product.PriceCents), -2)
	result, err := fields.Synchronize(defs, input.Values, basePrice, false)
	if err != nil {
		return nil, s.validationError(err)
	}
	s.observeSync("cart")

	adjustmentCents := int(fields.CentsOf(result.Adjustment))
	item := &models.CartItem{
		ProductID:         product.ID,
		Quantity:          input.Quantity,
		UnitPriceCents:    product.PriceCents,
		AdjustmentCents:   adjustmentCents,
		LineSubtotalCents: (product.PriceCents + adjustmentCents) * input.Quantity,
		FieldSnapshots:    result.Snapshots,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindActiveByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
			}
			cart = &models.CartRecord{UserID: userID}
			if err := repo.Create(ctx, cart); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
		}
		item.CartID = cart.ID
		if err := repo.CreateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) loadProductAndDefs(ctx context.Context, productID uuid.UUID) (*models.Product, []fields.Definition, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	defs, err := s.products.GetFieldDefinitions(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	return product, defs, nil
}

// validationError maps the engine's combined failures into one user-facing
// error carrying the whole batch as details.
func (s *service) validationError(err error) error {
	failures := fields.ValidationErrorsOf(err)
	if len(failures) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid field values")
	}
	details := make([]map[string]string, 0, len(failures))
	for _, failure := range failures {
		if s.pipeline != nil {
			s.pipeline.ObserveValidationFailure(string(failure.Code))
		}
		details = append(details, map[string]string{
			"field":   failure.FieldKey,
			"code":    string(failure.Code),
			"message": failure.Message,
		})
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid field values").WithDetails(details)
}

func (s *service) observeSync(stage string) {
	if s.pipeline != nil {
		s.pipeline.ObserveSync(stage)
	}
}
