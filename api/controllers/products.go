package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomasvidal/fieldforge-backend/api/responses"
	"github.com/tomasvidal/fieldforge-backend/internal/fields"
	productsvc "github.com/tomasvidal/fieldforge-backend/internal/products"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
)

const maxDefinitionDocBytes = 1 << 20

func productIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "productId")
	productID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}

// ProductFieldDefinitions returns the normalized definition set for a product.
func ProductFieldDefinitions(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		defs, err := svc.GetFieldDefinitions(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"field_definitions": defs})
	}
}

// SetProductFieldDefinitions replaces a product's definition set. Malformed
// definitions are dropped during normalization, not rejected.
func SetProductFieldDefinitions(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload struct {
			FieldDefinitions []fields.Definition `json:"field_definitions"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxDefinitionDocBytes)).Decode(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		defs, err := svc.SetFieldDefinitions(r.Context(), productID, payload.FieldDefinitions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"field_definitions": defs})
	}
}

// ExportProductFieldDefinitions serves the definition set as a portable JSON
// document.
func ExportProductFieldDefinitions(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.ExportFieldDefinitions(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"document": doc})
	}
}

// ImportProductFieldDefinitions installs a previously exported document.
func ImportProductFieldDefinitions(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload struct {
			Document json.RawMessage `json:"document"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxDefinitionDocBytes)).Decode(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		if len(payload.Document) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "document is required"))
			return
		}

		defs, err := svc.ImportFieldDefinitions(r.Context(), productID, payload.Document)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"field_definitions": defs})
	}
}
