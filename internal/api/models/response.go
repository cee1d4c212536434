package models

import (
	"time"

	"momentum-backtest/internal/analysis"
)

// SpreadResponse represents the response from a spread run
type SpreadResponse struct {
	ID      string        `json:"id"`
	Status  string        `json:"status"`
	Summary SpreadSummary `json:"summary"`
	Pairs   []PairResult  `json:"pairs"`
}

// SpreadSummary contains series-level results
type SpreadSummary struct {
	Source        string               `json:"source"`
	Periods       int                  `json:"periods"`
	Assets        int                  `json:"assets"`
	Pairs         int                  `json:"pairs"`
	Buckets       int                  `json:"buckets"`
	TieBreak      string               `json:"tie_break"`
	MissingPolicy string               `json:"missing_policy"`
	GrandAverage  float64              `json:"grand_average"`
	Stats         analysis.SeriesStats `json:"stats"`
	CreatedAt     time.Time            `json:"created_at"`
	ExpiresAt     time.Time            `json:"expires_at"`
}

// PairResult is one ranking period realized in the following period
type PairResult struct {
	Index         int      `json:"index"`
	Period        string   `json:"period"`
	NextPeriod    string   `json:"next_period"`
	Assets        int      `json:"assets"`
	GroupSize     int      `json:"group_size"`
	TopAverage    float64  `json:"top_average"`
	BottomAverage float64  `json:"bottom_average"`
	Spread        float64  `json:"spread"`
	TopMembers    []Member `json:"top_members,omitempty"`
	BottomMembers []Member `json:"bottom_members,omitempty"`
	Defaulted     []string `json:"defaulted,omitempty"`
}

// Member is a selected asset with its realized next-period return
type Member struct {
	AssetID    string  `json:"asset_id"`
	NextReturn float64 `json:"next_return"`
}

// OptionInfo describes one run option
type OptionInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "string", "bool"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
	Allowed     []string    `json:"allowed,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
