package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, slog.LevelInfo, FormatJSON)

	WithConversion("abc").Info("Converted dashboard", "panels", 3)
	Debug("hidden")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "Converted dashboard" {
		t.Errorf("msg = %v, want Converted dashboard", entry["msg"])
	}
	if entry["conversion_id"] != "abc" {
		t.Errorf("conversion_id = %v, want abc", entry["conversion_id"])
	}
	if entry["panels"] != float64(3) {
		t.Errorf("panels = %v, want 3", entry["panels"])
	}
}

func TestSetup_Text(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, slog.LevelDebug, FormatText)

	WithFile("/tmp/in/overview.json").Debug("Converting")
	WithRequestID("req-1").Warn("Slow request")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "file=/tmp/in/overview.json", "level=WARN", "request_id=req-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if Logger() != l || slog.Default() != l {
		t.Error("Setup should install the logger globally")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"logfmt", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
