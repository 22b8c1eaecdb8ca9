package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/api/responses"
	"github.com/kiatumarket/kiatu-backend/api/validators"
	cartsvc "github.com/kiatumarket/kiatu-backend/internal/cart"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Size      string `json:"size" validate:"max=16"`
	Color     string `json:"color" validate:"max=32"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=10"`
}

type updateQuantityRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type updateSizeRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color"`
	OldSize   string `json:"old_size"`
	NewSize   string `json:"new_size" validate:"max=16"`
}

type updateColorRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	OldColor  string `json:"old_color"`
	NewColor  string `json:"new_color" validate:"max=32"`
}

// CartGet returns the buyer's cart with totals and checkout gates.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds a catalog product to the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddItem(r.Context(), buyerID, cartsvc.AddItemInput{
			ProductID: uuid.MustParse(payload.ProductID),
			Size:      strings.TrimSpace(payload.Size),
			Color:     strings.TrimSpace(payload.Color),
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// CartRemoveItem drops the line addressed by the product_id, size and color
// query parameters.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		productID := strings.TrimSpace(q.Get("product_id"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required"))
			return
		}

		view, err := svc.RemoveItem(r.Context(), buyerID, cartsvc.ItemKeyInput{
			ProductID: productID,
			Size:      q.Get("size"),
			Color:     q.Get("color"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartUpdateQuantity sets a line's quantity; values are clamped to 1..10.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateQuantity(r.Context(), buyerID, cartsvc.UpdateQuantityInput{
			ItemKeyInput: cartsvc.ItemKeyInput{ProductID: payload.ProductID, Size: payload.Size, Color: payload.Color},
			Quantity:     payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartUpdateSize(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSizeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateSize(r.Context(), buyerID, cartsvc.UpdateSizeInput{
			ProductID: payload.ProductID,
			Color:     payload.Color,
			OldSize:   payload.OldSize,
			NewSize:   strings.TrimSpace(payload.NewSize),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartUpdateColor(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateColorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateColor(r.Context(), buyerID, cartsvc.UpdateColorInput{
			ProductID: payload.ProductID,
			Size:      payload.Size,
			OldColor:  payload.OldColor,
			NewColor:  strings.TrimSpace(payload.NewColor),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRefresh re-reads catalog prices and variants for every line.
func CartRefresh(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Refresh(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := buyerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), buyerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
