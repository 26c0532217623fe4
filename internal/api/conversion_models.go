package api

import (
	"encoding/json"
	"time"
)

// ConversionSummary counts the panels of one dashboard by classification
type ConversionSummary struct {
	Panels             int `json:"panels"`
	TextPanels         int `json:"textPanels"`
	TimeSeriesPanels   int `json:"timeSeriesPanels"`
	DistributionPanels int `json:"distributionPanels"`
	FallbackPanels     int `json:"fallbackPanels"`
}

// Conversion is a stored conversion record
type Conversion struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	LayoutStrategy string            `json:"layoutStrategy"`
	Summary        ConversionSummary `json:"summary"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ConversionWithDocuments is a conversion record with its source and result documents
type ConversionWithDocuments struct {
	Conversion
	Source json.RawMessage `json:"source"`
	Result json.RawMessage `json:"result"`
}

// Request/Response types

type SaveConversionRequest struct {
	Name           string
	LayoutStrategy string
	Summary        ConversionSummary
	Source         []byte
	Result         []byte
}

type ConvertParams struct {
	Layout string `validate:"omitempty,oneof=preserve auto"`
	Save   bool
}

type ConversionsResponse struct {
	Conversions []Conversion `json:"conversions"`
	Total       int          `json:"total"`
}

type StatsResponse struct {
	ConversionCount    int `json:"conversionCount"`
	PanelCount         int `json:"panelCount"`
	TextPanels         int `json:"textPanels"`
	TimeSeriesPanels   int `json:"timeSeriesPanels"`
	DistributionPanels int `json:"distributionPanels"`
	FallbackPanels     int `json:"fallbackPanels"`
}
