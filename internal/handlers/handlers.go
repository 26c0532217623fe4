package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/tobilg/dashconv/internal/api"
	"github.com/tobilg/dashconv/internal/converter"
	"github.com/tobilg/dashconv/internal/metrics"
	"github.com/tobilg/dashconv/internal/storage"
	"github.com/tobilg/dashconv/internal/version"
	"github.com/tobilg/dashconv/internal/websocket"
)

var validate = validator.New()

type Handlers struct {
	store   *storage.DuckDBStore
	hub     *websocket.Hub
	metrics *metrics.Metrics
	layout  converter.LayoutStrategy
}

// New creates the API handlers. layout is used when a request does not name one.
func New(store *storage.DuckDBStore, hub *websocket.Hub, m *metrics.Metrics, layout converter.LayoutStrategy) *Handlers {
	if layout == "" {
		layout = converter.LayoutPreserve
	}
	return &Handlers{
		store:   store,
		hub:     hub,
		metrics: m,
		layout:  layout,
	}
}

// HandleWebSocket handles GET /ws
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, w, r)
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// Helper functions
func parsePagination(r *http.Request) (limit, offset int) {
	limit = storage.DefaultListLimit
	offset = 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
			if limit > storage.MaxListLimit {
				limit = storage.MaxListLimit
			}
		}
	}

	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
