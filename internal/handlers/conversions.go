package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tobilg/dashconv/internal/api"
	"github.com/tobilg/dashconv/internal/websocket"
)

// ListConversions handles GET /api/conversions
func (h *Handlers) ListConversions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	conversions, total, err := h.store.GetConversions(r.Context(), limit, offset)
	if err != nil {
		api.WriteErrorFromError(w, api.NewStorageError("list conversions", err))
		return
	}

	api.WriteJSON(w, http.StatusOK, api.ConversionsResponse{Conversions: conversions, Total: total})
}

// GetConversion handles GET /api/conversions/{id}
func (h *Handlers) GetConversion(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookupConversion(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, conv)
}

// GetConversionResult handles GET /api/conversions/{id}/result
func (h *Handlers) GetConversionResult(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookupConversion(w, r)
	if !ok {
		return
	}
	api.WriteRawJSON(w, http.StatusOK, conv.Result)
}

// DeleteConversion handles DELETE /api/conversions/{id}
func (h *Handlers) DeleteConversion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "id is required")
		return
	}

	deleted, err := h.store.DeleteConversion(r.Context(), id)
	if err != nil {
		api.WriteErrorFromError(w, api.NewStorageError("delete conversion", err))
		return
	}
	if !deleted {
		api.WriteErrorFromError(w, api.NewNotFoundError("conversion", id))
		return
	}

	h.hub.Broadcast(websocket.NewConversionDeletedMessage(id))
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		api.WriteErrorFromError(w, api.NewStorageError("stats", err))
		return
	}

	api.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handlers) lookupConversion(w http.ResponseWriter, r *http.Request) (*api.ConversionWithDocuments, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "id is required")
		return nil, false
	}

	conv, err := h.store.GetConversion(r.Context(), id)
	if err != nil {
		api.WriteErrorFromError(w, api.NewStorageError("get conversion", err))
		return nil, false
	}
	if conv == nil {
		api.WriteErrorFromError(w, api.NewNotFoundError("conversion", id))
		return nil, false
	}
	return conv, true
}
