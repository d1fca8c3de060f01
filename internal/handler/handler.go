// Package handler serves the ops endpoints exposed while a session runs:
// health, Prometheus metrics and a read-only view of the session state.
package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/alex-user-go/getaway/internal/obs"
	"github.com/alex-user-go/getaway/internal/search/ratelimit"
	"github.com/alex-user-go/getaway/internal/session"
)

// SnapshotSource provides the session state.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// Handler handles ops HTTP requests.
type Handler struct {
	session     SnapshotSource
	rateLimiter *ratelimit.Limiter
	metrics     *obs.Metrics
	logger      *slog.Logger
}

// New creates a new Handler. A nil rateLimiter disables throttling.
func New(sess SnapshotSource, rateLimiter *ratelimit.Limiter, metrics *obs.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		session:     sess,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		logger:      logger,
	}
}

// Routes returns the ops router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", obs.HealthHandler(h.logger))
	r.Method(http.MethodGet, "/metrics", h.metrics.MetricsHandler())

	r.Group(func(r chi.Router) {
		r.Use(h.limit)
		r.Get("/session", h.SessionHandler)
		r.Get("/session/hotels/{ref}", h.HotelHandler)
	})

	return r
}

// SessionHandler handles /session requests.
func (h *Handler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// HotelHandler handles /session/hotels/{ref} requests. ref is a hotel key or
// a 1-based position.
func (h *Handler) HotelHandler(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	snap := h.session.Snapshot()

	for _, e := range snap.Hotels {
		if e.Key == ref {
			h.writeJSON(w, http.StatusOK, e)
			return
		}
	}
	for _, e := range snap.Hotels {
		if ref == strconv.Itoa(e.Index) {
			h.writeJSON(w, http.StatusOK, e)
			return
		}
	}

	writeError(w, http.StatusNotFound, "hotel not found")
}

func (h *Handler) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ExtractIP(r)
		if !h.rateLimiter.Allow(ip) {
			h.logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Can't change status after WriteHeader, just log
		h.logger.Error("failed to encode response", "error", err)
	}
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
