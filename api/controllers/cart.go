package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/api/middleware"
	"github.com/tomasvidal/fieldforge-backend/api/responses"
	"github.com/tomasvidal/fieldforge-backend/api/validators"
	cartsvc "github.com/tomasvidal/fieldforge-backend/internal/cart"
	"github.com/tomasvidal/fieldforge-backend/internal/fields"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
)

type cartLineRequest struct {
	ProductID uuid.UUID               `json:"product_id" validate:"required"`
	Quantity  int                     `json:"quantity" validate:"required,min=1"`
	Values    map[string]fields.Value `json:"values"`
}

func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

// CartQuote prices one prospective line without persisting anything.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.QuoteLine(r.Context(), cartsvc.QuoteInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			Values:    fields.Values(payload.Values),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// CartAttach validates the submission and stores it as a line on the caller's
// active cart.
func CartAttach(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AttachLine(r.Context(), userID, cartsvc.AttachInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			Values:    fields.Values(payload.Values),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}
