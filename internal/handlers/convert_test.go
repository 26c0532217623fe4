package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tobilg/dashconv/internal/api"
)

const lineDashboard = `{
  "name": "Errors",
  "panels": [
    {
      "id": "p1",
      "name": "Errors over time",
      "viewerType": "line",
      "queryString": "error | timeslice 1m | count by _timeslice",
      "metricsQueries": [],
      "x": 1, "y": 1, "width": 12, "height": 6,
      "properties": "{}"
    },
    {
      "id": "p2",
      "name": "Notes",
      "viewerType": "text",
      "queryString": "",
      "metricsQueries": [],
      "x": 13, "y": 1, "width": 6, "height": 3,
      "properties": "{\"settings\":{\"text\":{\"configuration\":{\"text\":\"### Read me\"}}}}"
    }
  ]
}`

const yamlDashboard = `name: Runbook
panels:
  - id: t1
    name: Notes
    viewerType: text
    queryString: ""
    metricsQueries: []
    x: 1
    y: 1
    width: 4
    height: 2
    properties: '{"settings":{"text":{"configuration":{"text":"Steps"}}}}'
`

func tooManyQueries() string {
	queries := make([]string, 6)
	for i := range queries {
		queries[i] = `"metric=m` + string(rune('0'+i)) + `"`
	}
	return `{"name":"Busy","panels":[{"id":"m","name":"Busy","viewerType":"line","queryString":"","metricsQueries":[` +
		strings.Join(queries, ",") + `],"x":1,"y":1,"width":4,"height":4,"properties":"{}"}]}`
}

func TestConvert(t *testing.T) {
	h, cleanup := setupTestHandlers(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(lineDashboard))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Convert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(ConversionIDHeader) != "" {
		t.Error("unsaved conversion should not carry an id header")
	}

	var dash api.DashboardV2
	if err := json.NewDecoder(rec.Body).Decode(&dash); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if dash.Name != "Errors" {
		t.Errorf("Name = %q, want Errors", dash.Name)
	}
	if len(dash.Panels) != 2 {
		t.Fatalf("got %d panels, want 2", len(dash.Panels))
	}
	if text := dash.Panels[1].Text; text == nil || *text != "Read me" {
		t.Errorf("text = %v, want %q", text, "Read me")
	}
}

func TestConvert_YAML(t *testing.T) {
	h, cleanup := setupTestHandlers(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(yamlDashboard))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()

	h.Convert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"text":"Steps"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestConvert_Save(t *testing.T) {
	h, cleanup := setupTestHandlers(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/convert?save=true&layout=auto", strings.NewReader(lineDashboard))
	rec := httptest.NewRecorder()

	h.Convert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	id := rec.Header().Get(ConversionIDHeader)
	if id == "" {
		t.Fatal("expected conversion id header")
	}

	conv, err := h.store.GetConversion(req.Context(), id)
	if err != nil {
		t.Fatalf("GetConversion() error = %v", err)
	}
	if conv == nil {
		t.Fatal("saved conversion not found")
	}
	if conv.LayoutStrategy != "auto" {
		t.Errorf("LayoutStrategy = %q, want auto", conv.LayoutStrategy)
	}
	if conv.Summary.Panels != 2 || conv.Summary.TextPanels != 1 || conv.Summary.TimeSeriesPanels != 1 {
		t.Errorf("unexpected summary %+v", conv.Summary)
	}
	if string(conv.Result) != rec.Body.String() {
		t.Errorf("stored result differs from response")
	}
}

const literalRangeDashboard = `{
  "name": "Today",
  "panels": [
    {
      "id": "t1",
      "name": "Top hosts",
      "viewerType": "table",
      "queryString": "_sourceCategory=web | count by host",
      "metricsQueries": [],
      "timeRange": {"type": "BeginBoundedTimeRange", "from": {"type": "LiteralTimeRangeBoundary", "rangeName": "today"}, "to": null},
      "x": 1, "y": 1, "width": 6, "height": 4,
      "properties": "{}"
    },
    {
      "id": "t2",
      "name": "Since epoch",
      "viewerType": "table",
      "queryString": "_sourceCategory=web | count",
      "metricsQueries": [],
      "timeRange": {"type": "BeginBoundedTimeRange", "from": {"type": "EpochTimeRangeBoundary"}, "to": null},
      "x": 7, "y": 1, "width": 6, "height": 4,
      "properties": "{}"
    }
  ]
}`

func TestConvert_SaveKeepsUnusableTimeRange(t *testing.T) {
	h, cleanup := setupTestHandlers(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/convert?save=true", strings.NewReader(literalRangeDashboard))
	rec := httptest.NewRecorder()

	h.Convert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	id := rec.Header().Get(ConversionIDHeader)
	if id == "" {
		t.Fatal("expected conversion id header")
	}

	conv, err := h.store.GetConversion(req.Context(), id)
	if err != nil {
		t.Fatalf("GetConversion() error = %v", err)
	}
	if conv == nil {
		t.Fatal("saved conversion not found")
	}
	if !strings.Contains(string(conv.Source), `"rangeName":"today"`) {
		t.Errorf("stored source lost the literal boundary: %s", conv.Source)
	}

	var stored, sent any
	if err := json.Unmarshal(conv.Source, &stored); err != nil {
		t.Fatalf("stored source is not JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(literalRangeDashboard), &sent); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	if diff := cmp.Diff(sent, stored); diff != "" {
		t.Errorf("stored source differs from request (-sent +stored):\n%s", diff)
	}
}

func TestConvert_SaveYAMLStoresJSON(t *testing.T) {
	h, cleanup := setupTestHandlers(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/convert?save=true", strings.NewReader(yamlDashboard))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()

	h.Convert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	conv, err := h.store.GetConversion(req.Context(), rec.Header().Get(ConversionIDHeader))
	if err != nil || conv == nil {
		t.Fatalf("GetConversion() = %v, %v", conv, err)
	}
	if !json.Valid(conv.Source) {
		t.Errorf("stored source is not JSON: %s", conv.Source)
	}
	if !strings.Contains(string(conv.Source), `"name":"Runbook"`) {
		t.Errorf("unexpected stored source: %s", conv.Source)
	}
}

func TestConvert_BadRequests(t *testing.T) {
	h, cleanup := setupTestHandlers(t)
	defer cleanup()

	tests := []struct {
		name       string
		url        string
		body       string
		wantStatus int
		wantInMsg  string
	}{
		{"empty body", "/api/convert", "  ", http.StatusBadRequest, "body"},
		{"malformed json", "/api/convert", `{"panels":`, http.StatusBadRequest, "body"},
		{"unknown layout", "/api/convert?layout=grid", lineDashboard, http.StatusBadRequest, "layout"},
		{"bad save flag", "/api/convert?save=maybe", lineDashboard, http.StatusBadRequest, "save"},
		{"too many queries", "/api/convert", tooManyQueries(), http.StatusBadRequest, "exceed the limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Convert(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			var resp api.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !strings.Contains(resp.Message, tt.wantInMsg) {
				t.Errorf("message %q does not mention %q", resp.Message, tt.wantInMsg)
			}
		})
	}
}

func TestConvert_PayloadTooLarge(t *testing.T) {
	h, cleanup := setupTestHandlers(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(lineDashboard))
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	h.Convert(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", rec.Code)
	}
}

func TestRequestFormat(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"", "json"},
		{"application/json", "json"},
		{"application/yaml", "yaml"},
		{"application/x-yaml; charset=utf-8", "yaml"},
		{"TEXT/YAML", "yaml"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/convert", nil)
		req.Header.Set("Content-Type", tt.contentType)
		if got := string(requestFormat(req)); got != tt.want {
			t.Errorf("requestFormat(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
