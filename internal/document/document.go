// Package document reads classic dashboards and writes v2 dashboards.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tobilg/dashconv/internal/api"
	"sigs.k8s.io/yaml"
)

// Format is the text encoding of a classic dashboard
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension. Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// IsSupported reports whether path has an extension the reader understands
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Normalize returns the classic document as compact JSON exactly as it was
// received, converting YAML first. Fields the reader does not model are kept.
func Normalize(data []byte, format Format) ([]byte, error) {
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("converting YAML to JSON: %w", err)
		}
		data = converted
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("parsing classic dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a classic dashboard
func Decode(data []byte, format Format) (*api.DashboardV1, error) {
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("converting YAML to JSON: %w", err)
		}
		data = converted
	}

	var dash api.DashboardV1
	if err := json.Unmarshal(data, &dash); err != nil {
		return nil, fmt.Errorf("parsing classic dashboard: %w", err)
	}
	return &dash, nil
}

// Read parses a classic dashboard from r
func Read(r io.Reader, format Format) (*api.DashboardV1, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading classic dashboard: %w", err)
	}
	return Decode(data, format)
}

// ReadFile parses the classic dashboard stored at path
func ReadFile(path string) (*api.DashboardV1, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	dash, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dash, nil
}

// Marshal serializes a v2 dashboard as JSON, indented when pretty is set
func Marshal(dash *api.DashboardV2, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(dash); err != nil {
		return nil, fmt.Errorf("encoding v2 dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// Write serializes a v2 dashboard to w
func Write(w io.Writer, dash *api.DashboardV2, pretty bool) error {
	data, err := Marshal(dash, pretty)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile serializes a v2 dashboard to path, creating parent directories
func WriteFile(path string, dash *api.DashboardV2, pretty bool) error {
	data, err := Marshal(dash, pretty)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Readers of the output directory never observe a partially written file
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dashconv-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// OutputPath returns the v2 file path for a classic input file inside dir
func OutputPath(dir, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+".v2.json")
}
