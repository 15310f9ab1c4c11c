package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/meditrack/meditrack-api/api/responses"
	"github.com/meditrack/meditrack-api/pkg/config"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/types"
)

const serviceName = "MediTrack API"

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"message": serviceName,
			"version": "1.0.0",
			"endpoints": map[string]string{
				"health":    "/health",
				"hospitals": "/api/hospitals",
				"beds":      "/api/beds",
				"blood":     "/api/blood",
				"ambulance": "/api/ambulance/nearest",
				"alerts":    "/api/alerts",
				"ai":        "/api/ai/recommend",
				"realtime":  "/ws",
				"metrics":   "/metrics",
			},
		})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MediTrack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// HealthReady pings every configured dependency. A nil pinger is reported as disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MediTrack-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(deps))
		ready := true
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "disabled"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				ready = false
				checks[name] = "unavailable"
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"dependency": name, "error": err.Error()}), "health.dependency_unavailable")
				}
				continue
			}
			checks[name] = "ok"
		}

		if !ready {
			responses.WriteEnvelope(w, http.StatusServiceUnavailable, types.ErrorEnvelope{Error: types.APIError{
				Code:    string(pkgerrors.CodeDependency),
				Message: "not ready",
				Details: checks,
			}})
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
