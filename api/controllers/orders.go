package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/api/middleware"
	"github.com/tomasvidal/fieldforge-backend/api/responses"
	"github.com/tomasvidal/fieldforge-backend/api/validators"
	"github.com/tomasvidal/fieldforge-backend/internal/fields"
	ordersvc "github.com/tomasvidal/fieldforge-backend/internal/orders"
	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
)

func actorFromContext(r *http.Request) (ordersvc.Actor, error) {
	userID, err := userIDFromContext(r)
	if err != nil {
		return ordersvc.Actor{}, err
	}
	return ordersvc.Actor{
		UserID: userID,
		Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
	}, nil
}

func orderLineFromPath(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	lineID, err := uuid.Parse(chi.URLParam(r, "lineId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line item id")
	}
	return orderID, lineID, nil
}

type checkoutRequest struct {
	CartID uuid.UUID `json:"cart_id" validate:"required"`
}

// OrderCheckout converts the caller's cart into an order.
func OrderCheckout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), actor, payload.CartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderLineFields returns the persisted field snapshots for one line item.
func OrderLineFields(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, lineID, err := orderLineFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshots, err := svc.GetLineFields(r.Context(), actor, orderID, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"field_snapshots": snapshots})
	}
}

type editLineFieldsRequest struct {
	Values map[string]fields.Value `json:"values" validate:"required"`
}

// OrderLineFieldsEdit re-runs the pipeline for one line with new values.
func OrderLineFieldsEdit(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, lineID, err := orderLineFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload editLineFieldsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.EditLineFields(r.Context(), actor, ordersvc.EditLineInput{
			OrderID: orderID,
			LineID:  lineID,
			Values:  fields.Values(payload.Values),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, line)
	}
}
