package document

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tobilg/dashconv/internal/api"
	"github.com/tobilg/dashconv/internal/converter"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"dash.json", FormatJSON},
		{"dash.JSON", FormatJSON},
		{"dash.yaml", FormatYAML},
		{"dash.yml", FormatYAML},
		{"dash", FormatJSON},
		{"dash.txt", FormatJSON},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.json", true},
		{"a.yaml", true},
		{"a.YML", true},
		{"a.v2.json", true},
		{"a.txt", false},
		{"a", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadFile_JSON(t *testing.T) {
	dash, err := ReadFile(filepath.Join("testdata", "simple-line-classic.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if dash.Name != "Simple Line" {
		t.Errorf("Name = %q, want Simple Line", dash.Name)
	}
	if dash.DetailLevel == nil || *dash.DetailLevel != 2 {
		t.Errorf("DetailLevel = %v, want 2", dash.DetailLevel)
	}
	if len(dash.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(dash.Panels))
	}

	line := dash.Panels[0]
	if line.TimeRange == nil || line.TimeRange.From.RelativeTime != "-1h" || line.TimeRange.To != nil {
		t.Errorf("unexpected time range: %+v", line.TimeRange)
	}

	area := dash.Panels[1]
	want := []api.MetricsQuery{"metric=CPU_Total _sourceCategory=prod", "metric=CPU_Idle _sourceCategory=prod"}
	if len(area.MetricsQueries) != len(want) {
		t.Fatalf("expected %d metrics queries, got %v", len(want), area.MetricsQueries)
	}
	for i := range want {
		if area.MetricsQueries[i] != want[i] {
			t.Errorf("MetricsQueries[%d] = %q, want %q", i, area.MetricsQueries[i], want[i])
		}
	}
}

func TestReadFile_YAML(t *testing.T) {
	dash, err := ReadFile(filepath.Join("testdata", "simple-text-classic.yaml"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if dash.Name != "Simple Text" || len(dash.Panels) != 1 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}

	v2, err := converter.Convert(dash)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if v2.Panels[0].Text == nil || *v2.Panels[0].Text != "Runbook" {
		t.Errorf("text = %v, want Runbook", v2.Panels[0].Text)
	}
}

func TestReadFile_Errors(t *testing.T) {
	if _, err := ReadFile(filepath.Join("testdata", "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	_, err := ReadFile(filepath.Join("testdata", "malformed.json"))
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	if !strings.Contains(err.Error(), "malformed.json") {
		t.Errorf("expected error to name the file, got %v", err)
	}
}

func TestDecode_InvalidMetricsQuery(t *testing.T) {
	_, err := Decode([]byte(`{"panels":[{"metricsQueries":[42]}]}`), FormatJSON)
	if err == nil {
		t.Error("expected error for numeric metrics query")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		want   string
	}{
		{
			name:   "json keeps unmodelled fields",
			input:  "{\n  \"name\": \"A\",\n  \"from\": {\"type\": \"LiteralTimeRangeBoundary\", \"rangeName\": \"today\"}\n}",
			format: FormatJSON,
			want:   `{"name":"A","from":{"type":"LiteralTimeRangeBoundary","rangeName":"today"}}`,
		},
		{
			name:   "yaml becomes json",
			input:  "name: B\npanels: []\n",
			format: FormatYAML,
			want:   `{"name":"B","panels":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Normalize = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := Normalize([]byte(`{"name":`), FormatJSON); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestRead(t *testing.T) {
	dash, err := Read(strings.NewReader(`{"name":"From reader","panels":[]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if dash.Name != "From reader" {
		t.Errorf("Name = %q, want From reader", dash.Name)
	}
}

func TestWrite(t *testing.T) {
	dash, err := ReadFile(filepath.Join("testdata", "simple-line-classic.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	v2, err := converter.Convert(dash)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	var compact, pretty bytes.Buffer
	if err := Write(&compact, v2, false); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := Write(&pretty, v2, true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if strings.Count(compact.String(), "\n") != 1 {
		t.Errorf("compact output should be a single line, got %q", compact.String())
	}
	if !strings.Contains(pretty.String(), "\n  \"type\": \"DashboardV2SyncDefinition\"") {
		t.Errorf("pretty output not indented:\n%s", pretty.String())
	}

	var roundTrip map[string]any
	if err := json.Unmarshal(compact.Bytes(), &roundTrip); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	panels := roundTrip["panels"].([]any)
	first := panels[0].(map[string]any)
	from := first["timeRange"].(map[string]any)["from"].(map[string]any)
	if from["relativeTime"] != "-1h" {
		t.Errorf("panel time range not preserved: %v", from)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := OutputPath(filepath.Join(dir, "out"), "/some/where/simple-line-classic.json")

	if filepath.Base(path) != "simple-line-classic.v2.json" {
		t.Errorf("OutputPath base = %q", filepath.Base(path))
	}

	v2, err := converter.Convert(&api.DashboardV1{Name: "Written"})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if err := WriteFile(path, v2, false); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), `"name":"Written"`) {
		t.Errorf("unexpected output: %s", data)
	}
}
