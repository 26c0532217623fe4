package converter

import (
	"testing"

	"github.com/tobilg/dashconv/internal/api"
)

func TestLayoutKey(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "panelPANE-0"},
		{1, "panelPANE-1"},
		{12, "panelPANE-12"},
	}

	for _, tt := range tests {
		if got := LayoutKey(tt.index); got != tt.want {
			t.Errorf("LayoutKey(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestBuildStructure_Preserve(t *testing.T) {
	opts := DefaultLayoutOptions()

	tests := []struct {
		name  string
		index int
		panel api.ClassicPanel
		want  string
	}{
		{
			name:  "top-left panel",
			panel: api.ClassicPanel{X: 1, Y: 1, Width: 6, Height: 4},
			want:  `{"height":4,"width":6,"x":0,"y":0}`,
		},
		{
			name:  "offset panel",
			index: 3,
			panel: api.ClassicPanel{X: 7, Y: 5, Width: 12, Height: 8},
			want:  `{"height":8,"width":12,"x":6,"y":4}`,
		},
		{
			name:  "missing size falls back to auto placement",
			index: 4,
			panel: api.ClassicPanel{X: 1, Y: 1},
			want:  `{"height":6,"width":12,"x":12,"y":6,"minHeight":3,"minWidth":3}`,
		},
		{
			name:  "zero position falls back to auto placement",
			index: 2,
			panel: api.ClassicPanel{X: 0, Y: 0, Width: 6, Height: 4},
			want:  `{"height":6,"width":12,"x":24,"y":0,"minHeight":3,"minWidth":3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildStructure(tt.index, tt.panel, opts); got != tt.want {
				t.Errorf("BuildStructure = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildStructure_PreserveFallbackCanOverlap(t *testing.T) {
	opts := DefaultLayoutOptions()
	panels := []api.ClassicPanel{
		{X: 13, Y: 1, Width: 6, Height: 4},
		{},
	}

	want := []string{
		`{"height":4,"width":6,"x":12,"y":0}`,
		`{"height":6,"width":12,"x":12,"y":0,"minHeight":3,"minWidth":3}`,
	}
	for i, panel := range panels {
		if got := BuildStructure(i, panel, opts); got != want[i] {
			t.Errorf("BuildStructure(%d) = %s, want %s", i, got, want[i])
		}
	}
}

func TestBuildStructure_Auto(t *testing.T) {
	opts := DefaultLayoutOptions()
	opts.Strategy = LayoutAuto
	panel := api.ClassicPanel{X: 5, Y: 5, Width: 3, Height: 3}

	tests := []struct {
		index int
		want  string
	}{
		{0, `{"height":6,"width":12,"x":0,"y":0,"minHeight":3,"minWidth":3}`},
		{1, `{"height":6,"width":12,"x":12,"y":0,"minHeight":3,"minWidth":3}`},
		{2, `{"height":6,"width":12,"x":24,"y":0,"minHeight":3,"minWidth":3}`},
		{3, `{"height":6,"width":12,"x":0,"y":6,"minHeight":3,"minWidth":3}`},
		{7, `{"height":6,"width":12,"x":12,"y":12,"minHeight":3,"minWidth":3}`},
	}

	for _, tt := range tests {
		if got := BuildStructure(tt.index, panel, opts); got != tt.want {
			t.Errorf("BuildStructure(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestBuildStructure_CustomAutoOptions(t *testing.T) {
	opts := LayoutOptions{
		Strategy:    LayoutAuto,
		PanelHeight: 4,
		PanelWidth:  8,
		Columns:     2,
		MinHeight:   2,
		MinWidth:    2,
	}

	got := BuildStructure(5, api.ClassicPanel{}, opts)
	want := `{"height":4,"width":8,"x":8,"y":8,"minHeight":2,"minWidth":2}`
	if got != want {
		t.Errorf("BuildStructure = %s, want %s", got, want)
	}
}

func TestBuildStructure_ZeroOptionsUseDefaults(t *testing.T) {
	got := BuildStructure(4, api.ClassicPanel{}, LayoutOptions{})
	want := `{"height":6,"width":12,"x":12,"y":6,"minHeight":3,"minWidth":3}`
	if got != want {
		t.Errorf("BuildStructure = %s, want %s", got, want)
	}
}

func TestBuildLayout(t *testing.T) {
	panels := []api.ClassicPanel{
		{ID: "same", X: 1, Y: 1, Width: 6, Height: 4},
		{ID: "same", X: 7, Y: 1, Width: 6, Height: 4},
		{ID: "other", X: 1, Y: 5, Width: 12, Height: 6},
	}

	units := BuildLayout(panels, DefaultLayoutOptions())
	if len(units) != len(panels) {
		t.Fatalf("expected %d layout units, got %d", len(panels), len(units))
	}

	seen := map[string]bool{}
	for i, u := range units {
		if u.Key != LayoutKey(i) {
			t.Errorf("units[%d].Key = %q, want %q", i, u.Key, LayoutKey(i))
		}
		if seen[u.Key] {
			t.Errorf("duplicate layout key %q", u.Key)
		}
		seen[u.Key] = true
	}

	if units[1].Structure != `{"height":4,"width":6,"x":6,"y":0}` {
		t.Errorf("units[1].Structure = %s", units[1].Structure)
	}
}

func TestBuildLayout_Empty(t *testing.T) {
	units := BuildLayout(nil, DefaultLayoutOptions())
	if units == nil || len(units) != 0 {
		t.Errorf("expected empty non-nil layout, got %#v", units)
	}
}

func TestParseLayoutStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    LayoutStrategy
		wantErr bool
	}{
		{"", LayoutPreserve, false},
		{"preserve", LayoutPreserve, false},
		{"PRESERVE", LayoutPreserve, false},
		{"auto", LayoutAuto, false},
		{" Auto ", LayoutAuto, false},
		{"grid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLayoutStrategy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLayoutStrategy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLayoutStrategy(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
