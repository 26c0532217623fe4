package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tobilg/dashconv/internal/api"
	"github.com/tobilg/dashconv/internal/converter"
	"github.com/tobilg/dashconv/internal/document"
	"github.com/tobilg/dashconv/internal/logger"
	"github.com/tobilg/dashconv/internal/middleware"
	"github.com/tobilg/dashconv/internal/websocket"
)

// ConversionIDHeader carries the history id of a saved conversion
const ConversionIDHeader = "X-Conversion-Id"

// Convert handles POST /api/convert
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	params, err := parseConvertParams(r)
	if err != nil {
		api.WriteErrorFromError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.WriteErrorFromError(w, api.NewPayloadTooLargeError(maxErr.Limit, 0))
			return
		}
		api.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		api.WriteErrorFromError(w, api.NewValidationError("body", "classic dashboard is required"))
		return
	}

	format := requestFormat(r)
	src, err := document.Decode(body, format)
	if err != nil {
		api.WriteErrorFromError(w, api.WrapValidationError("body", err))
		return
	}

	layout := h.layout
	if params.Layout != "" {
		layout = converter.LayoutStrategy(params.Layout)
	}
	opts := converter.DefaultOptions()
	opts.Layout.Strategy = layout

	start := time.Now()
	summary := converter.Summarize(src)
	dash, err := converter.New(opts).Convert(src)
	h.metrics.ObserveConversion(summary, time.Since(start), err)
	if err != nil {
		if converter.IsOutOfRange(err) {
			api.WriteErrorFromError(w, api.WrapValidationError("panels", err))
			return
		}
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := document.Marshal(dash, r.URL.Query().Get("pretty") == "true")
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := r.Context().Err(); err != nil {
		budget, _ := middleware.RequestBudget(r.Context())
		api.WriteErrorFromError(w, api.NewTimeoutError("convert", budgetString(budget)))
		return
	}

	event := websocket.ConversionEvent{
		Name:           src.Name,
		LayoutStrategy: string(layout),
		Summary:        summary,
	}

	if params.Save {
		// the source is stored as received so unmodelled fields survive
		source, err := document.Normalize(body, format)
		if err != nil {
			api.WriteErrorFromError(w, api.WrapValidationError("body", err))
			return
		}
		saved, err := h.store.SaveConversion(r.Context(), &api.SaveConversionRequest{
			Name:           src.Name,
			LayoutStrategy: string(layout),
			Summary:        summary,
			Source:         source,
			Result:         result,
		})
		if err != nil {
			api.WriteErrorFromError(w, api.NewStorageError("save conversion", err))
			return
		}
		event.ID = saved.ID
		w.Header().Set(ConversionIDHeader, saved.ID)
		logger.WithConversion(saved.ID).Info("Saved conversion", "name", src.Name, "panels", summary.Panels)
	}

	h.hub.Broadcast(websocket.NewConversionMessage(event))

	api.WriteRawJSON(w, http.StatusOK, result)
}

func parseConvertParams(r *http.Request) (api.ConvertParams, error) {
	q := r.URL.Query()
	params := api.ConvertParams{
		Layout: strings.ToLower(strings.TrimSpace(q.Get("layout"))),
	}

	if s := q.Get("save"); s != "" {
		save, err := strconv.ParseBool(s)
		if err != nil {
			return params, api.NewValidationError("save", "must be true or false")
		}
		params.Save = save
	}

	if err := validate.Struct(params); err != nil {
		return params, api.NewValidationError("layout", "must be one of preserve, auto")
	}
	return params, nil
}

// requestFormat picks the classic document format from the Content-Type header
func requestFormat(r *http.Request) document.Format {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.Contains(ct, "yaml") {
		return document.FormatYAML
	}
	return document.FormatJSON
}

func budgetString(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.String()
}
