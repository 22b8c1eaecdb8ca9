package controllers

import (
	"net/http"
	"strings"

	"github.com/kiatumarket/kiatu-backend/api/middleware"
	"github.com/kiatumarket/kiatu-backend/api/responses"
	"github.com/kiatumarket/kiatu-backend/api/validators"
	"github.com/kiatumarket/kiatu-backend/internal/address"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
)

const maxSuggestQueryLen = 200

type resolveAddressRequest struct {
	PlaceID      string `json:"place_id" validate:"required,max=256"`
	SessionToken string `json:"session_token" validate:"max=128"`
}

// AddressSuggest returns place suggestions for a partial address. Clients that
// send session and seq get stale responses flagged instead of delivered.
func AddressSuggest(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := q.Get("q")
		if strings.TrimSpace(query) == "" {
			query = q.Get("query")
		}
		query = validators.SanitizeString(query, maxSuggestQueryLen)
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}

		seq, err := validators.ParseQueryUint(r, "seq")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Suggest(r.Context(), address.SuggestRequest{
			BuyerID:      middleware.BuyerIDFromContext(r.Context()),
			Query:        query,
			Country:      strings.TrimSpace(q.Get("country")),
			SessionToken: strings.TrimSpace(q.Get("session_token")),
			Session:      strings.TrimSpace(q.Get("session")),
			Seq:          seq,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AddressResolve turns a place id into a delivery address.
func AddressResolve(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resolveAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addr, err := svc.Resolve(r.Context(), address.ResolveRequest{
			PlaceID:      strings.TrimSpace(payload.PlaceID),
			SessionToken: payload.SessionToken,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addr)
	}
}
