package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tomasvidal/fieldforge-backend/api/responses"
	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/db"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
	"github.com/tomasvidal/fieldforge-backend/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FieldForge-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing store before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FieldForge-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
