package middleware

import (
	"net/http"
	"strings"

	"github.com/kiatumarket/kiatu-backend/api/responses"
	pkgAuth "github.com/kiatumarket/kiatu-backend/pkg/auth"
	"github.com/kiatumarket/kiatu-backend/pkg/config"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
)

// Auth requires a buyer token. The "Bearer" scheme is optional so tools that
// send the raw token keep working.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseBuyerToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithBuyerID(r.Context(), claims.BuyerID)
			if logg != nil {
				ctx = logg.WithBuyerID(ctx, claims.BuyerID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, rest, found := strings.Cut(raw, " ")
	if found && strings.EqualFold(scheme, "bearer") {
		raw = strings.TrimSpace(rest)
	}
	return raw, raw != ""
}
