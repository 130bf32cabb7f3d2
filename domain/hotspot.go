package domain

import (
	"context"
	"time"
)

// RiskLevel classifies a hotspot
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Churn is the change activity of one file over a time window
type Churn struct {
	Commits int `json:"commits"`
	Authors int `json:"authors"`
}

// ChurnProvider reports per-file churn keyed by path relative to dir.
// Implementations return an empty map on any failure.
type ChurnProvider interface {
	ChurnStats(ctx context.Context, dir string, since time.Time) map[string]Churn
}

// Hotspot is a file ranked by churn-weighted complexity
type Hotspot struct {
	File                string    `json:"file"`
	Commits             int       `json:"commits"`
	Authors             int       `json:"authors"`
	Complexity          int       `json:"complexity"`
	CognitiveComplexity int       `json:"cognitiveComplexity"`
	Score               float64   `json:"score"`
	Risk                RiskLevel `json:"risk"`
}

// HotspotResult is the ranked hotspot list for a lookback period
type HotspotResult struct {
	Period   string    `json:"period"`
	Hotspots []Hotspot `json:"hotspots"`
}
