package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/internal/cart"
	"github.com/tomasvidal/fieldforge-backend/internal/fields"
	"github.com/tomasvidal/fieldforge-backend/internal/products"
	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the authenticated caller of an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (a Actor) mayAccess(order *models.Order) bool {
	return a.Role == enums.UserRoleAdmin || order.UserID == a.UserID
}

// Service drives the order half of the field lifecycle: checkout copies cart
// snapshots forward, and authorized edits re-run the pipeline against the
// prior snapshot.
type Service interface {
	Checkout(ctx context.Context, actor Actor, cartID uuid.UUID) (*models.Order, error)
	GetLineFields(ctx context.Context, actor Actor, orderID, lineID uuid.UUID) (map[string]fields.Snapshot, error)
	EditLineFields(ctx context.Context, actor Actor, input EditLineInput) (*models.OrderLineItem, error)
}

// EditLineInput carries an authorized re-edit of one line's field values.
type EditLineInput struct {
	OrderID uuid.UUID
	LineID  uuid.UUID
	Values  fields.Values
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
	tx       txRunner
	products products.Service
	pipeline *metrics.Pipeline
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, cartRepo cart.Repository, tx txRunner, productSvc products.Service, pipeline *metrics.Pipeline) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartRepo == nil {
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
		cartRepo: cartRepo,
		tx:       tx,
		products: productSvc,
		pipeline: pipeline,
	}, nil
}

// Checkout converts an active cart into a persisted order. Every line is
// re-validated fail-fast against the product's authoritative price and current
// definitions; the whole order is computed in memory before any write.
func (s *service) Checkout(ctx context.Context, actor Actor, cartID uuid.UUID) (*models.Order, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cartRecord, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cartRecord.UserID != actor.UserID && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if cartRecord.Status != enums.CartStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart already converted")
	}
	if len(cartRecord.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]models.OrderLineItem, 0, len(cartRecord.Items))
	subtotal := 0
	for _, item := range cartRecord.Items {
		line, err := s.buildOrderLine(ctx, item)
		if err != nil {
			return nil, err
		}
		subtotal += line.TotalCents
		lines = append(lines, *line)
	}

	order := &models.Order{
		UserID:        cartRecord.UserID,
		Status:        enums.OrderStatusPending,
		SubtotalCents: subtotal,
		TotalCents:    subtotal,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := repo.CreateLineItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}
		if err := s.cartRepo.WithTx(tx).UpdateStatus(ctx, cartRecord.ID, enums.CartStatusConverted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "convert cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = lines
	s.observeSync("checkout")
	return order, nil
}

// buildOrderLine re-runs the pipeline for one cart line against the product's
// authoritative price. The cart snapshot supplies the submitted values; the
// fresh snapshot set denormalizes the definitions in force right now.
func (s *service) buildOrderLine(ctx context.Context, item models.CartItem) (*models.OrderLineItem, error) {
	product, err := s.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	defs, err := s.products.GetFieldDefinitions(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}

	values := make(fields.Values, len(item.FieldSnapshots))
	for _, snap := range item.FieldSnapshots {
		values[snap.Key] = snap.Value
	}

	basePrice := decimal.New(int64(product.PriceCents), -2)
	result, err := fields.Synchronize(defs, values, basePrice, true)
	if err != nil {
		return nil, s.validationError(err)
	}

	adjustmentCents := int(fields.CentsOf(result.Adjustment))
	lineTotal := (product.PriceCents + adjustmentCents) * item.Quantity
	productID := product.ID
	return &models.OrderLineItem{
		ProductID:       &productID,
		Name:            product.Title,
		Qty:             item.Quantity,
		UnitPriceCents:  product.PriceCents,
		AdjustmentCents: adjustmentCents,
		SubtotalCents:   lineTotal,
		TotalCents:      lineTotal,
		FieldSnapshots:  result.SnapshotMap(),
	}, nil
}

// GetLineFields returns the persisted snapshots for redisplay.
func (s *service) GetLineFields(ctx context.Context, actor Actor, orderID, lineID uuid.UUID) (map[string]fields.Snapshot, error) {
	_, line, err := s.loadGatedLine(ctx, actor, orderID, lineID, false)
	if err != nil {
		return nil, err
	}
	return line.FieldSnapshots, nil
}

// EditLineFields applies an authorized edit of one line's field values. The
// prior snapshot supplies values for non-editable fields and the old side of
// the audit diff; the full new snapshot is computed in memory and written in
// one transaction together with the notes and reconciled totals.
func (s *service) EditLineFields(ctx context.Context, actor Actor, input EditLineInput) (*models.OrderLineItem, error) {
	order, line, err := s.loadGatedLine(ctx, actor, input.OrderID, input.LineID, true)
	if err != nil {
		return nil, err
	}
	if line.ProductID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "line has no product")
	}

	defs, err := s.editDefinitions(ctx, *line.ProductID, line.FieldSnapshots)
	if err != nil {
		return nil, err
	}

	effective := effectiveValues(defs, line.FieldSnapshots, input.Values)

	// percentage adjustments are recomputed against the product's current
	// price, not the price at original purchase
	basePrice, err := s.products.GetBasePrice(ctx, *line.ProductID)
	if err != nil {
		return nil, err
	}
	result, err := fields.Synchronize(defs, effective, basePrice, true)
	if err != nil {
		return nil, s.validationError(err)
	}

	notes := fields.Diff(line.FieldSnapshots, result.Snapshots)

	adjustmentCents := int(fields.CentsOf(result.Adjustment))
	lineTotal := (line.UnitPriceCents + adjustmentCents) * line.Qty
	line.AdjustmentCents = adjustmentCents
	line.SubtotalCents = lineTotal
	line.TotalCents = lineTotal
	line.FieldSnapshots = result.SnapshotMap()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateLineItem(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line item")
		}
		for _, note := range notes {
			if err := repo.AddNote(ctx, &models.OrderNote{
				OrderID: order.ID,
				Author:  actor.UserID.String(),
				Body:    note,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add order note")
			}
		}

		items, err := repo.FindLineItemsByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload line items")
		}
		subtotal := 0
		for _, item := range items {
			if item.ID == line.ID {
				subtotal += line.TotalCents
				continue
			}
			subtotal += item.TotalCents
		}
		if err := repo.UpdateOrderTotals(ctx, order.ID, subtotal, subtotal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.observeSync("order_edit")
	if s.pipeline != nil {
		s.pipeline.ObserveAuditNotes(len(notes))
	}
	return line, nil
}

// loadGatedLine loads an order line under the permission and, when forEdit,
// order-status gates. Denials are generic; no detail is leaked.
func (s *service) loadGatedLine(ctx context.Context, actor Actor, orderID, lineID uuid.UUID, forEdit bool) (*models.Order, *models.OrderLineItem, error) {
	if orderID == uuid.Nil || lineID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order and line id required")
	}
	if actor.UserID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !actor.mayAccess(order) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if forEdit && !order.Status.AllowsFieldEdits() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	line, err := s.repo.FindLineItem(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
	}
	if line.OrderID != order.ID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	return order, line, nil
}

// editDefinitions builds the definition set an edit validates against:
// the product's current definitions, overridden by the denormalized copy
// stored in the snapshot wherever one exists, so historical fields keep the
// schema they were captured under.
func (s *service) editDefinitions(ctx context.Context, productID uuid.UUID, snapshots map[string]fields.Snapshot) ([]fields.Definition, error) {
	current, err := s.products.GetFieldDefinitions(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]fields.Definition, 0, len(current))
	seen := make(map[string]struct{}, len(current))
	for _, def := range current {
		if snap, ok := snapshots[def.Key()]; ok {
			def = snap.Definition
		}
		seen[def.Key()] = struct{}{}
		out = append(out, def)
	}
	// fields removed from the product since purchase survive via the snapshot
	for key, snap := range snapshots {
		if _, ok := seen[key]; !ok {
			out = append(out, snap.Definition)
		}
	}
	return out, nil
}

// effectiveValues merges the prior snapshot values with the submitted ones.
// Only fields marked editable accept new input after order placement;
// submissions for locked fields are ignored.
func effectiveValues(defs []fields.Definition, snapshots map[string]fields.Snapshot, submitted fields.Values) fields.Values {
	effective := make(fields.Values, len(defs))
	for key, snap := range snapshots {
		effective[key] = snap.Value
	}
	for _, def := range defs {
		if !def.Editable {
			continue
		}
		key := def.Key()
		if value, ok := submitted[key]; ok {
			if value.IsEmpty() {
				delete(effective, key)
			} else {
				effective[key] = value
			}
		}
	}
	return effective
}

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
