package converter

import (
	"encoding/json"
	"fmt"

	"github.com/tobilg/dashconv/internal/api"
)

// Presentation defaults expected by the v2 renderer
const (
	titleFontSize          = 16
	titlePanelFontSize     = 20
	defaultAggregationType = "average"
	outlierBandColor       = "#FDECF5"
	outlierBandMarkerColor = "#F134A1"
	outlierBandFillOpacity = 0.5
)

// Field order fixes the key order of the serialized settings.
type visualSettings struct {
	Title     titleSettings   `json:"title"`
	General   generalSettings `json:"general"`
	Overrides []any           `json:"overrides"`
	Series    map[string]any  `json:"series"`
	Axes      map[string]any  `json:"axes"`
	Legend    map[string]any  `json:"legend"`
	Color     map[string]any  `json:"color"`
}

type titleSettings struct {
	FontSize int `json:"fontSize"`
}

type generalSettings struct {
	Mode                   string   `json:"mode"`
	Type                   string   `json:"type"`
	AggregationType        string   `json:"aggregationType"`
	GroupBy                []string `json:"groupBy"`
	OutlierBandColor       string   `json:"outlierBandColor"`
	OutlierBandMarkerColor string   `json:"outlierBandMarkerColor"`
	OutlierBandFillOpacity float64  `json:"outlierBandFillOpacity"`
}

// BuildVisualSettings returns the JSON-encoded visual settings of a panel
func BuildVisualSettings(panel api.ClassicPanel) (string, error) {
	return buildVisualSettings(panel, ClassifyPanel(panel))
}

func buildVisualSettings(panel api.ClassicPanel, kind Kind) (string, error) {
	fontSize := titleFontSize
	if panel.ViewerType == viewerTitle {
		fontSize = titlePanelFontSize
	}

	settings := visualSettings{
		Title: titleSettings{FontSize: fontSize},
		General: generalSettings{
			Mode:                   kind.Mode(),
			Type:                   kind.ChartType(panel.ViewerType),
			AggregationType:        defaultAggregationType,
			GroupBy:                []string{},
			OutlierBandColor:       outlierBandColor,
			OutlierBandMarkerColor: outlierBandMarkerColor,
			OutlierBandFillOpacity: outlierBandFillOpacity,
		},
		Overrides: []any{},
		Series:    map[string]any{},
		Axes:      map[string]any{},
		Legend:    map[string]any{},
		Color:     map[string]any{},
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("marshaling visual settings: %w", err)
	}
	return string(data), nil
}
