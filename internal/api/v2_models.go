package api

// Document-level constants of the v2 format
const (
	DashboardV2Type      = "DashboardV2SyncDefinition"
	DashboardV2Theme     = "Light"
	LayoutTypeGrid       = "Grid"
	PanelTypeSearch      = "SumoSearchPanel"
	PanelTypeText        = "TextPanel"
	FallbackPanelText    = "Simple Text Panel"
	DefaultRefreshPeriod = 0
)

// QueryType tags the language of a query
type QueryType string

const (
	QueryTypeLogs    QueryType = "Logs"
	QueryTypeMetrics QueryType = "Metrics"
)

// DashboardV2 is the target dashboard document
type DashboardV2 struct {
	Type             string             `json:"type"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Title            string             `json:"title"`
	RootPanel        *DashboardV2Panel  `json:"rootPanel"`
	Theme            string             `json:"theme"`
	TopologyLabelMap TopologyLabelMap   `json:"topologyLabelMap"`
	RefreshInterval  int                `json:"refreshInterval"`
	TimeRange        *TimeRange         `json:"timeRange"`
	Layout           Layout             `json:"layout"`
	Panels           []DashboardV2Panel `json:"panels"`
	ColoringRules    []string           `json:"coloringRules"`
	Variables        []string           `json:"variables"`
}

// TopologyLabelMap is always emitted empty
type TopologyLabelMap struct {
	Data map[string][]string `json:"data"`
}

// Layout holds the grid cells of every panel
type Layout struct {
	LayoutType       string       `json:"layoutType"`
	LayoutStructures []LayoutUnit `json:"layoutStructures"`
}

// LayoutUnit pairs a panel key with its serialized position descriptor.
// Structure is a JSON object literal stored as a string.
type LayoutUnit struct {
	Key       string `json:"key"`
	Structure string `json:"structure"`
}

// DashboardV2Panel is one panel of the target document
type DashboardV2Panel struct {
	ID                                     string     `json:"id"`
	Key                                    string     `json:"key"`
	Title                                  string     `json:"title"`
	VisualSettings                         string     `json:"visualSettings"`
	KeepVisualSettingsConsistentWithParent bool       `json:"keepVisualSettingsConsistentWithParent"`
	PanelType                              string     `json:"panelType"`
	Queries                                []Query    `json:"queries"`
	Description                            string     `json:"description"`
	TimeRange                              *TimeRange `json:"timeRange,omitempty"`
	ColoringRules                          []string   `json:"coloringRules"`
	LinkedDashboards                       []string   `json:"linkedDashboards"`
	Text                                   *string    `json:"text,omitempty"`
}

// Query is one keyed query of a v2 panel
type Query struct {
	QueryString      string    `json:"queryString"`
	QueryType        QueryType `json:"queryType"`
	QueryKey         string    `json:"queryKey"`
	MetricsQueryMode *string   `json:"metricsQueryMode"`
	MetricsQueryData *string   `json:"metricsQueryData"`
}
