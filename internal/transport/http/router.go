package httptransport

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	subscriptionhandler "bulletin/internal/subscription/handler"
)

// NewRouter wires all public endpoints. Feature handlers register their own
// sub-routers; transport-only endpoints (health, metrics) live here.
func NewRouter(subscriptions *subscriptionhandler.Handler, db *sql.DB) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth(db))
	r.Handle("/metrics", promhttp.Handler())

	subscriptions.Register(r)
	return r
}

// handleHealth reports liveness, and readiness of the database when one is
// wired (tests pass nil).
func handleHealth(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
