// Package converter translates classic dashboards into v2 dashboards.
//
// Conversion is a pure function of the source document: it performs no I/O,
// keeps no state between calls and returns a freshly allocated result, so a
// Converter may be shared by concurrent callers.
package converter

import (
	"errors"
	"fmt"

	"github.com/tobilg/dashconv/internal/api"
)

// ErrNilDashboard is returned when Convert is called without a source document
var ErrNilDashboard = errors.New("classic dashboard is nil")

// Options configures a Converter
type Options struct {
	Layout LayoutOptions
}

// DefaultOptions returns position-preserving conversion options
func DefaultOptions() Options {
	return Options{Layout: DefaultLayoutOptions()}
}

// Converter converts classic dashboards using fixed options
type Converter struct {
	opts Options
}

// New creates a Converter
func New(opts Options) *Converter {
	opts.Layout = opts.Layout.normalized()
	return &Converter{opts: opts}
}

// Convert converts src with DefaultOptions
func Convert(src *api.DashboardV1) (*api.DashboardV2, error) {
	return New(DefaultOptions()).Convert(src)
}

// Options returns the converter's options
func (c *Converter) Options() Options {
	return c.opts
}

// Convert builds the v2 document for src. Panel order, panel keys and layout
// keys follow source order. Any panel error fails the whole conversion.
func (c *Converter) Convert(src *api.DashboardV1) (*api.DashboardV2, error) {
	if src == nil {
		return nil, ErrNilDashboard
	}

	panels := make([]api.DashboardV2Panel, 0, len(src.Panels))
	for i, p := range src.Panels {
		panel, err := c.buildPanel(i, p)
		if err != nil {
			return nil, fmt.Errorf("converting panel %d (%q): %w", i, p.Name, err)
		}
		panels = append(panels, panel)
	}

	// the classic dashboard-level time range is not carried over
	return &api.DashboardV2{
		Type:             api.DashboardV2Type,
		Name:             src.Name,
		Description:      "",
		Title:            src.Name,
		RootPanel:        nil,
		Theme:            api.DashboardV2Theme,
		TopologyLabelMap: api.TopologyLabelMap{Data: map[string][]string{}},
		RefreshInterval:  api.DefaultRefreshPeriod,
		TimeRange:        api.DefaultTimeRange(),
		Layout: api.Layout{
			LayoutType:       api.LayoutTypeGrid,
			LayoutStructures: BuildLayout(src.Panels, c.opts.Layout),
		},
		Panels:        panels,
		ColoringRules: []string{},
		Variables:     []string{},
	}, nil
}

func (c *Converter) buildPanel(i int, p api.ClassicPanel) (api.DashboardV2Panel, error) {
	kind := ClassifyPanel(p)
	key := LayoutKey(i)

	id := p.ID
	if id == "" {
		id = key
	}

	visual, err := buildVisualSettings(p, kind)
	if err != nil {
		return api.DashboardV2Panel{}, err
	}

	panel := api.DashboardV2Panel{
		ID:                                     id,
		Key:                                    key,
		Title:                                  p.Name,
		VisualSettings:                         visual,
		KeepVisualSettingsConsistentWithParent: true,
		PanelType:                              api.PanelTypeSearch,
		Queries:                                []api.Query{},
		Description:                            "",
		ColoringRules:                          nil,
		LinkedDashboards:                       []string{},
	}

	if kind == KindText {
		text := ExtractText(p.Properties)
		panel.PanelType = api.PanelTypeText
		panel.Text = &text
		return panel, nil
	}

	queries, err := BuildQueries(p.QueryString, p.MetricsQueries)
	if err != nil {
		return api.DashboardV2Panel{}, err
	}
	panel.Queries = queries

	if tr, ok := TranslateTimeRange(kind, p.TimeRange); ok {
		panel.TimeRange = tr
	} else {
		text := api.FallbackPanelText
		panel.Text = &text
	}
	return panel, nil
}

// Summarize counts the panels of src by classification. Panels whose time
// range is present but unusable are also counted as fallbacks.
func Summarize(src *api.DashboardV1) api.ConversionSummary {
	var s api.ConversionSummary
	if src == nil {
		return s
	}

	s.Panels = len(src.Panels)
	for _, p := range src.Panels {
		kind := ClassifyPanel(p)
		switch kind {
		case KindText:
			s.TextPanels++
			continue
		case KindTimeSeries:
			s.TimeSeriesPanels++
		default:
			s.DistributionPanels++
		}
		if _, ok := TranslateTimeRange(kind, p.TimeRange); !ok {
			s.FallbackPanels++
		}
	}
	return s
}
