package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"momentum-backtest/internal/analysis"
	"momentum-backtest/internal/api/models"
	"momentum-backtest/internal/backtest"
	"momentum-backtest/internal/config"
	"momentum-backtest/internal/data"
	"momentum-backtest/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead is the allowance for form fields and part headers on top
// of the file size limit.
const multipartOverhead = 64 << 10

// SpreadHandler handles spread run requests
type SpreadHandler struct {
	runs      *data.RunCache
	log       logrus.FieldLogger
	maxUpload int64
}

// NewSpreadHandler creates a new spread handler
func NewSpreadHandler(runs *data.RunCache, log logrus.FieldLogger, maxUpload int64) *SpreadHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SpreadHandler{runs: runs, log: log, maxUpload: maxUpload}
}

// RunSpread handles POST /api/v1/spread
func (h *SpreadHandler) RunSpread(c *gin.Context) {
	if h.maxUpload > 0 {
		limit := h.maxUpload + multipartOverhead
		if c.Request.ContentLength > limit {
			h.respondTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	var req models.SpreadRequest
	if err := c.ShouldBind(&req); err != nil {
		if bodyTooLarge(err) {
			h.respondTooLarge(c)
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if bodyTooLarge(err) {
			h.respondTooLarge(c)
			return
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required", nil)
		return
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		respondError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("file is %d bytes, limit is %d", fh.Size, h.maxUpload), nil)
		return
	}

	cfg, err := buildConfig(&req)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error(), nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	src := cfg.Source()
	src.Path = fh.Filename
	panel, err := data.ParseBytes(raw, src)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PANEL", err.Error(), nil)
		return
	}

	log := h.log.WithFields(logrus.Fields{
		"file":    fh.Filename,
		"periods": panel.Len(),
		"assets":  panel.Assets(),
		"buckets": cfg.Selection.Buckets,
	})

	engine := backtest.NewWithOptions(cfg.EngineOptions())
	res, err := engine.RunPanel(panel)
	if err != nil {
		log.WithError(err).Warn("spread run failed")
		respondRunError(c, err)
		return
	}

	run := h.runs.Put(&data.StoredRun{
		Source:  fh.Filename,
		Periods: panel.Len(),
		Assets:  panel.Assets(),
		Options: engine.Options(),
		Result:  res,
		Stats:   analysis.ComputeStats(res.Spreads()),
	})
	log.WithFields(logrus.Fields{
		"run_id":        run.ID,
		"grand_average": res.GrandAverage,
	}).Info("spread run completed")

	c.JSON(http.StatusOK, buildResponse(run, req.IncludeMembers))
}

// GetRun handles GET /api/v1/spread/:id
func (h *SpreadHandler) GetRun(c *gin.Context) {
	var q models.RunQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildResponse(run, q.IncludeMembers))
}

// GetRunCSV handles GET /api/v1/spread/:id/csv
func (h *SpreadHandler) GetRunCSV(c *gin.Context) {
	var q models.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	run, ok := h.lookup(c)
	if !ok {
		return
	}

	precision := backtest.DefaultPrecision
	if q.Precision != nil {
		precision = *q.Precision
	}

	name := "spread"
	write := func(w io.Writer) error { return backtest.WriteSpreadTable(w, run.Result, precision) }
	if q.Layout == "ledger" {
		name = "ledger"
		write = func(w io.Writer) error { return backtest.WriteLedgerTable(w, run.Result.Ledger, precision) }
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%s.csv", name, run.ID)))
	c.Status(http.StatusOK)
	if err := write(c.Writer); err != nil {
		h.log.WithError(err).WithField("run_id", run.ID).Error("write csv report")
	}
}

func (h *SpreadHandler) respondTooLarge(c *gin.Context) {
	respondError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
		fmt.Sprintf("request body exceeds the %d byte upload limit", h.maxUpload), nil)
}

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func (h *SpreadHandler) lookup(c *gin.Context) (*data.StoredRun, bool) {
	id := c.Param("id")
	run, ok := h.runs.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "RUN_NOT_FOUND",
			fmt.Sprintf("run %q not found or expired", id), nil)
		return nil, false
	}
	return run, true
}

// buildConfig overlays the form fields on the default config and validates the result.
func buildConfig(req *models.SpreadRequest) (*config.Config, error) {
	cfg := &config.Config{}
	cfg.Input.Format = req.Format
	cfg.Input.Sheet = req.Sheet
	cfg.Input.Order = req.Order
	if req.MissingTokens != "" {
		for _, tok := range strings.Split(req.MissingTokens, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				cfg.Input.MissingTokens = append(cfg.Input.MissingTokens, tok)
			}
		}
	}
	cfg.Selection.Buckets = req.Buckets
	cfg.Selection.TieBreak = req.TieBreak
	cfg.Realization.MissingPolicy = req.MissingPolicy

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildResponse(run *data.StoredRun, members bool) models.SpreadResponse {
	res := run.Result
	pairs := make([]models.PairResult, 0, len(res.Ledger))
	for _, row := range res.Ledger {
		p := models.PairResult{
			Index:         row.Index,
			Period:        row.Label,
			NextPeriod:    row.NextLabel,
			Assets:        row.Assets,
			GroupSize:     row.GroupSize,
			TopAverage:    row.TopAverage,
			BottomAverage: row.BottomAverage,
			Spread:        row.Spread,
			Defaulted:     row.Defaulted,
		}
		if members {
			p.TopMembers = toMembers(row.Top)
			p.BottomMembers = toMembers(row.Bottom)
		}
		pairs = append(pairs, p)
	}

	return models.SpreadResponse{
		ID:     run.ID,
		Status: "completed",
		Summary: models.SpreadSummary{
			Source:        run.Source,
			Periods:       run.Periods,
			Assets:        run.Assets,
			Pairs:         len(res.Ledger),
			Buckets:       run.Options.Buckets,
			TieBreak:      string(run.Options.TieBreak),
			MissingPolicy: string(run.Options.MissingPolicy),
			GrandAverage:  res.GrandAverage,
			Stats:         run.Stats,
			CreatedAt:     run.CreatedAt,
			ExpiresAt:     run.ExpiresAt,
		},
		Pairs: pairs,
	}
}

func toMembers(samples []model.Sample) []models.Member {
	out := make([]models.Member, len(samples))
	for i, s := range samples {
		out[i] = models.Member{AssetID: s.AssetID, NextReturn: s.Rate}
	}
	return out
}

func respondRunError(c *gin.Context, err error) {
	var (
		sampleErr *backtest.InsufficientSampleError
		assetErr  *backtest.AssetNotFoundError
	)
	switch {
	case errors.As(err, &sampleErr):
		respondError(c, http.StatusUnprocessableEntity, "INSUFFICIENT_SAMPLE_SIZE", err.Error(), map[string]interface{}{
			"period":  sampleErr.Period,
			"assets":  sampleErr.Assets,
			"buckets": sampleErr.Buckets,
		})
	case errors.As(err, &assetErr):
		respondError(c, http.StatusUnprocessableEntity, "ASSET_NOT_FOUND_IN_NEXT_PERIOD", err.Error(), map[string]interface{}{
			"asset_id":    assetErr.AssetID,
			"group":       string(assetErr.Group),
			"period":      assetErr.Period,
			"next_period": assetErr.Next,
		})
	case errors.Is(err, backtest.ErrNotEnoughPeriods):
		respondError(c, http.StatusUnprocessableEntity, "NOT_ENOUGH_PERIODS", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "BACKTEST_ERROR", err.Error(), nil)
	}
}

func respondError(c *gin.Context, status int, code, msg string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: msg,
			Details: details,
		},
	})
}
