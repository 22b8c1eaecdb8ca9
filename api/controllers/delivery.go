package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/api/responses"
	"github.com/kiatumarket/kiatu-backend/api/validators"
	"github.com/kiatumarket/kiatu-backend/internal/delivery"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
)

type deliveryQuoteRequest struct {
	VendorID     *string `json:"vendor_id" validate:"omitempty,uuid"`
	VendorRegion *string `json:"vendor_region" validate:"omitempty,max=64"`
	BuyerRegion  string  `json:"buyer_region" validate:"max=64"`
	IsPickup     bool    `json:"is_pickup"`
}

// DeliveryQuote prices a single vendor to buyer delivery.
func DeliveryQuote(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload deliveryQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.IsPickup && strings.TrimSpace(payload.BuyerRegion) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "buyer_region is required unless is_pickup is set"))
			return
		}

		input := delivery.QuoteInput{
			VendorRegion: payload.VendorRegion,
			BuyerRegion:  payload.BuyerRegion,
			IsPickup:     payload.IsPickup,
		}
		if payload.VendorID != nil {
			id := uuid.MustParse(*payload.VendorID)
			input.VendorID = &id
		}

		result, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
