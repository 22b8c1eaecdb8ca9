package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/api/middleware"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
)

func buyerFromRequest(r *http.Request) (uuid.UUID, error) {
	buyerID := middleware.BuyerIDFromContext(r.Context())
	if buyerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer context missing")
	}
	return buyerID, nil
}
