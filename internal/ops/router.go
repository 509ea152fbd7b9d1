package ops

import (
	"encoding/json"
	"net/http"

	"churnscope/internal/dataset"
	apperrors "churnscope/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StoreStatus is the part of *dataset.Store the probes read
type StoreStatus interface {
	State() dataset.State
	Err() error
}

// Config toggles the optional ops endpoints
type Config struct {
	Profiling bool
}

// NewRouter builds the ops listener: liveness, readiness and, when enabled, pprof at /debug
func NewRouter(store StoreStatus, cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		handleReady(w, store)
	})

	if cfg.Profiling {
		r.Mount("/debug", middleware.Profiler())
	}
	return r
}

// handleReady answers 200 only once the dataset is loaded
func handleReady(w http.ResponseWriter, store StoreStatus) {
	state := store.State()
	body := map[string]string{"state": state.String()}
	if state == dataset.StateLoaded {
		writeJSON(w, http.StatusOK, body)
		return
	}
	if err := store.Err(); err != nil {
		body["code"] = apperrors.GetCode(err)
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusServiceUnavailable, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
