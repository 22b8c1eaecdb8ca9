package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxBuyerID contextKey = "buyer_id"

// BuyerIDFromContext returns the authenticated buyer, or uuid.Nil.
func BuyerIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxBuyerID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithBuyerID injects the buyer identifier into the context.
func WithBuyerID(ctx context.Context, buyerID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBuyerID, buyerID)
}
