package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tobilg/dashconv/internal/api"
)

// LayoutStrategy selects how panel cells are placed on the v2 grid
type LayoutStrategy string

const (
	// LayoutPreserve keeps each panel's own position and size
	LayoutPreserve LayoutStrategy = "preserve"
	// LayoutAuto places fixed-size panels in a fixed number of columns
	LayoutAuto LayoutStrategy = "auto"
)

const layoutKeyPrefix = "panelPANE-"

// LayoutOptions configures the layout builder. The size fields drive
// auto-placement, which is also the per-panel fallback for panels
// without a usable position.
type LayoutOptions struct {
	Strategy    LayoutStrategy
	PanelHeight int
	PanelWidth  int
	Columns     int
	MinHeight   int
	MinWidth    int
}

// DefaultLayoutOptions returns position-preserving placement with a 3-column 6x12 fallback
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Strategy:    LayoutPreserve,
		PanelHeight: 6,
		PanelWidth:  12,
		Columns:     3,
		MinHeight:   3,
		MinWidth:    3,
	}
}

// ParseLayoutStrategy parses a strategy name; empty means preserve
func ParseLayoutStrategy(s string) (LayoutStrategy, error) {
	switch LayoutStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutPreserve:
		return LayoutPreserve, nil
	case LayoutAuto:
		return LayoutAuto, nil
	default:
		return "", fmt.Errorf("invalid layout strategy %q: must be preserve or auto", s)
	}
}

// LayoutKey returns the layout and panel key for the panel at index i
func LayoutKey(i int) string {
	return layoutKeyPrefix + strconv.Itoa(i)
}

// BuildLayout returns one layout unit per panel, in source order
func BuildLayout(panels []api.ClassicPanel, opts LayoutOptions) []api.LayoutUnit {
	opts = opts.normalized()
	units := make([]api.LayoutUnit, 0, len(panels))
	for i, panel := range panels {
		units = append(units, api.LayoutUnit{
			Key:       LayoutKey(i),
			Structure: BuildStructure(i, panel, opts),
		})
	}
	return units
}

// BuildStructure returns the serialized position descriptor of one panel.
// In preserve mode a panel without a usable position falls back to the auto
// grid cell for index i, which may overlap a preserved neighbour.
func BuildStructure(i int, panel api.ClassicPanel, opts LayoutOptions) string {
	opts = opts.normalized()
	if opts.Strategy == LayoutPreserve && hasPosition(panel) {
		// classic grids are 1-indexed, v2 grids 0-indexed
		return fmt.Sprintf(`{"height":%d,"width":%d,"x":%d,"y":%d}`,
			panel.Height, panel.Width, panel.X-1, panel.Y-1)
	}

	col := i % opts.Columns
	row := i / opts.Columns
	return fmt.Sprintf(`{"height":%d,"width":%d,"x":%d,"y":%d,"minHeight":%d,"minWidth":%d}`,
		opts.PanelHeight, opts.PanelWidth, col*opts.PanelWidth, row*opts.PanelHeight, opts.MinHeight, opts.MinWidth)
}

func hasPosition(panel api.ClassicPanel) bool {
	return panel.Width > 0 && panel.Height > 0 && panel.X >= 1 && panel.Y >= 1
}

func (o LayoutOptions) normalized() LayoutOptions {
	d := DefaultLayoutOptions()
	if o.Strategy == "" {
		o.Strategy = d.Strategy
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = d.PanelHeight
	}
	if o.PanelWidth <= 0 {
		o.PanelWidth = d.PanelWidth
	}
	if o.Columns <= 0 {
		o.Columns = d.Columns
	}
	if o.MinHeight <= 0 {
		o.MinHeight = d.MinHeight
	}
	if o.MinWidth <= 0 {
		o.MinWidth = d.MinWidth
	}
	return o
}
