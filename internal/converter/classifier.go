package converter

import (
	"strings"

	"github.com/tobilg/dashconv/internal/api"
)

// Kind is the classification of a source panel
type Kind int

const (
	// KindDistribution is the catch-all for tables, pies and unknown chart kinds
	KindDistribution Kind = iota
	KindTimeSeries
	KindText
)

const (
	viewerText  = "text"
	viewerTitle = "title"

	timesliceOperator = "timeslice"
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTimeSeries:
		return "timeSeries"
	default:
		return "distribution"
	}
}

// Mode is the visual settings "general.mode" tag for the kind
func (k Kind) Mode() string {
	switch k {
	case KindText:
		return api.PanelTypeText
	case KindTimeSeries:
		return "timeSeries"
	default:
		return "distribution"
	}
}

// ChartType returns the chart kind threaded into visual settings:
// "text" for text and title panels, otherwise the viewer type verbatim.
func (k Kind) ChartType(viewerType string) string {
	if k == KindText {
		return viewerText
	}
	return viewerType
}

// Classify maps a panel's viewer type and queries to its Kind. First match wins:
// text/title viewers, then log queries using timeslice or any metrics queries,
// then the distribution default.
func Classify(viewerType, queryString string, metricsQueries []api.MetricsQuery) Kind {
	if viewerType == viewerText || viewerType == viewerTitle {
		return KindText
	}
	if queryString != "" && strings.Contains(queryString, timesliceOperator) {
		return KindTimeSeries
	}
	if len(metricsQueries) > 0 {
		return KindTimeSeries
	}
	return KindDistribution
}

// ClassifyPanel is Classify applied to a whole panel
func ClassifyPanel(panel api.ClassicPanel) Kind {
	return Classify(panel.ViewerType, panel.QueryString, panel.MetricsQueries)
}
