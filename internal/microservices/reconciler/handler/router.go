package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

func Router(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/deliveries/search", h.DeliveryHandler.Search)
	mux.HandleFunc("GET /api/v1/shifts", h.DeliveryHandler.ListShifts)
	mux.HandleFunc("GET /healthz", h.Health)
	return h.withRequestLog(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog stamps each request with an id (echoed in X-Request-ID) and
// logs its outcome.
func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		h.log.WithRequestID(id).Info("http_request", map[string]any{
			"method": r.Method, "path": r.URL.Path, "status": rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "db_error", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
