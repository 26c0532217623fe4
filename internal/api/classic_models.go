package api

import (
	"encoding/json"
	"fmt"
)

// DashboardV1 is a legacy ("classic") dashboard document
type DashboardV1 struct {
	Name        string         `json:"name"`
	DetailLevel *int           `json:"detailLevel,omitempty"`
	Properties  string         `json:"properties,omitempty"`
	Panels      []ClassicPanel `json:"panels"`
}

// ClassicPanel is one panel of a classic dashboard. Positions are 1-indexed grid units.
type ClassicPanel struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	ViewerType     string         `json:"viewerType"`
	DetailLevel    *int           `json:"detailLevel,omitempty"`
	QueryString    string         `json:"queryString"`
	MetricsQueries []MetricsQuery `json:"metricsQueries"`
	TimeRange      *TimeRange     `json:"timeRange,omitempty"`
	X              int            `json:"x"`
	Y              int            `json:"y"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Properties     string         `json:"properties"`
}

// MetricsQuery is a single classic metrics query.
// Exports carry either a bare string or an object with a "query" field.
type MetricsQuery string

func (q *MetricsQuery) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = MetricsQuery(s)
		return nil
	}

	var obj struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("metrics query must be a string or an object with a query field: %w", err)
	}
	*q = MetricsQuery(obj.Query)
	return nil
}
