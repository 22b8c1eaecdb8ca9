package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kiatumarket/kiatu-backend/api/responses"
	"github.com/kiatumarket/kiatu-backend/pkg/config"
	pkgerrors "github.com/kiatumarket/kiatu-backend/pkg/errors"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kiatu-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings Postgres and Redis. Any failure answers 503 with the
// failing dependency named in details.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kiatu-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		failures := map[string]any{}
		checks := map[string]pinger{"postgres": dbP, "redis": redisP}
		for name, p := range checks {
			if p == nil {
				failures[name] = "not configured"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failures))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
