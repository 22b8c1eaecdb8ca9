package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// BuyerClaims is the JWT body presented by storefront clients.
type BuyerClaims struct {
	BuyerID uuid.UUID `json:"buyer_id"`
	jwt.RegisteredClaims
}
