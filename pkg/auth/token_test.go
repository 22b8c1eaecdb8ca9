package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kiatumarket/kiatu-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "kiatu",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseBuyerToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	buyerID := uuid.New()

	token, err := MintBuyerToken(cfg, now, buyerID)
	if err != nil {
		t.Fatalf("mint buyer token: %v", err)
	}

	claims, err := ParseBuyerToken(cfg, token)
	if err != nil {
		t.Fatalf("parse buyer token: %v", err)
	}
	if claims.BuyerID != buyerID {
		t.Fatalf("expected buyer_id %s, got %s", buyerID, claims.BuyerID)
	}
	if claims.Issuer != cfg.Issuer || claims.Subject != buyerID.String() {
		t.Fatalf("unexpected registered claims %+v", claims.RegisteredClaims)
	}
	if claims.ExpiresAt.Time.Sub(now) < 29*time.Minute {
		t.Fatalf("expiry too early: %s", claims.ExpiresAt.Time)
	}
}

func TestParseBuyerTokenRejects(t *testing.T) {
	cfg := testJWTConfig()
	buyerID := uuid.New()

	expired, err := MintBuyerToken(cfg, time.Now().Add(-2*time.Hour), buyerID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseBuyerToken(cfg, expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}

	valid, err := MintBuyerToken(cfg, time.Now(), buyerID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Secret = "different"
	if _, err := ParseBuyerToken(other, valid); err == nil {
		t.Fatal("expected signature failure with wrong secret")
	}
	other = cfg
	other.Issuer = "someone-else"
	if _, err := ParseBuyerToken(other, valid); err == nil {
		t.Fatal("expected issuer mismatch")
	}

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, BuyerClaims{BuyerID: buyerID})
	unsigned, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseBuyerToken(cfg, unsigned); err == nil {
		t.Fatal("alg=none must be rejected")
	}
}

func TestParseBuyerTokenRequiresBuyer(t *testing.T) {
	cfg := testJWTConfig()
	claims := BuyerClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseBuyerToken(cfg, token); !errors.Is(err, ErrMissingBuyer) {
		t.Fatalf("expected ErrMissingBuyer, got %v", err)
	}
}

func TestMintBuyerTokenValidatesConfig(t *testing.T) {
	cases := map[string]config.JWTConfig{
		"secret": {Issuer: "kiatu", ExpirationMinutes: 5},
		"issuer": {Secret: "s", ExpirationMinutes: 5},
		"expiration": {Secret: "s", Issuer: "kiatu"},
	}
	for name, cfg := range cases {
		if _, err := MintBuyerToken(cfg, time.Now(), uuid.New()); err == nil || !strings.Contains(err.Error(), name) {
			t.Fatalf("%s: expected config error, got %v", name, err)
		}
	}
	if _, err := MintBuyerToken(testJWTConfig(), time.Now(), uuid.Nil); !errors.Is(err, ErrMissingBuyer) {
		t.Fatalf("expected ErrMissingBuyer, got %v", err)
	}
}
