// internal/api/server.go
//
// Read-only ops listener, daemon mode only.
//
// Serves health, Prometheus metrics, and a small JSON view over the
// current buildings and units.  Strictly read-only: nothing here can touch
// a scrape in flight, and the store's WAL mode keeps these reads off the
// writers' backs.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/aptscrape/internal/building"
	"github.com/yanizio/aptscrape/internal/middleware"
	"github.com/yanizio/aptscrape/internal/runlog"
	"github.com/yanizio/aptscrape/internal/server"
	"github.com/yanizio/aptscrape/internal/unit"
)

// Serve runs the listener until ctx is cancelled, then shuts down
// gracefully.  An empty addr disables the listener.
func Serve(ctx context.Context, addr string, db *sqlx.DB) error {
	if addr == "" {
		return nil
	}

	srv := server.New(addr, router(db))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	zap.S().Infow("ops listener online", "addr", addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func router(db *sqlx.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Security)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/api/buildings", func(w http.ResponseWriter, req *http.Request) {
		rows, err := building.All(req.Context(), db)
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, rows)
	})

	r.Get("/api/buildings/{id}/units", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad building id", http.StatusBadRequest)
			return
		}
		rows, err := unit.ByBuilding(req.Context(), db, id)
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, rows)
	})

	r.Get("/api/buildings/{id}/runs", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad building id", http.StatusBadRequest)
			return
		}
		rows, err := runlog.RecentByBuilding(req.Context(), db, id, 30)
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, rows)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("response encode failed", "err", err)
	}
}

func serverError(w http.ResponseWriter, err error) {
	zap.S().Errorw("api query failed", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
