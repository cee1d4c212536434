package handlers

import (
	"net/http"

	"momentum-backtest/internal/api/models"
	"momentum-backtest/internal/backtest"
	"momentum-backtest/internal/data"

	"github.com/gin-gonic/gin"
)

// OptionsHandler describes the knobs accepted by POST /api/v1/spread
type OptionsHandler struct{}

// NewOptionsHandler creates a new options handler
func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

// ListOptions handles GET /api/v1/options
func (h *OptionsHandler) ListOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": spreadOptions()})
}

func spreadOptions() []models.OptionInfo {
	return []models.OptionInfo{
		{
			Name:        "format",
			Type:        "string",
			Description: "Panel file encoding. Inferred from the file extension when empty.",
			Allowed:     []string{string(data.FormatCSV), string(data.FormatXLSX), string(data.FormatJSON)},
		},
		{
			Name:        "sheet",
			Type:        "string",
			Description: "Worksheet to read from an xlsx upload. Defaults to the first sheet.",
		},
		{
			Name:        "order",
			Type:        "string",
			Description: "Column order of periods in the uploaded table",
			Default:     string(data.OrderNewestFirst),
			Allowed:     []string{string(data.OrderNewestFirst), string(data.OrderOldestFirst)},
		},
		{
			Name:        "missing_tokens",
			Type:        "string",
			Description: "Comma-separated cell values read as a return of 0",
			Default:     data.MissingToken,
		},
		{
			Name:        "buckets",
			Type:        "int",
			Description: "Number of quantile buckets; each group holds floor(assets / buckets) members",
			Default:     backtest.DefaultBuckets,
		},
		{
			Name:        "tie_break",
			Type:        "string",
			Description: "How equal rates at a group boundary are resolved",
			Default:     string(backtest.TieBreakInsertion),
			Allowed:     []string{string(backtest.TieBreakInsertion), string(backtest.TieBreakAssetID)},
		},
		{
			Name:        "missing_policy",
			Type:        "string",
			Description: "What happens when a selected asset has no return in the next period",
			Default:     string(backtest.MissingPolicyError),
			Allowed:     []string{string(backtest.MissingPolicyError), string(backtest.MissingPolicyZero)},
		},
		{
			Name:        "include_members",
			Type:        "bool",
			Description: "Include each pair's group members in the response",
			Default:     false,
		},
	}
}
