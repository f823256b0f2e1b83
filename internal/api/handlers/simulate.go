package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"solar-risk/internal/api/models"
	"solar-risk/internal/config"
	"solar-risk/internal/data"
	"solar-risk/internal/detrend"
	"solar-risk/internal/energy"
	appmodel "solar-risk/internal/model"
	"solar-risk/internal/payout"
	"solar-risk/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SimulateHandler handles simulation requests.
type SimulateHandler struct {
	dataDir string
	cache   *data.DatasetCache

	mu   sync.RWMutex
	runs map[string][]models.LedgerRow
}

// NewSimulateHandler creates a handler serving datasets from dataDir.
func NewSimulateHandler(dataDir string, cache *data.DatasetCache) *SimulateHandler {
	return &SimulateHandler{
		dataDir: dataDir,
		cache:   cache,
		runs:    make(map[string][]models.LedgerRow),
	}
}

// RunSimulate handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	path, err := h.datasetPath(req.Dataset)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_DATASET",
				Message: err.Error(),
			},
		})
		return
	}

	readings, err := h.cache.Load(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATASET_READ_ERROR",
				Message: err.Error(),
				Details: map[string]interface{}{"dataset": req.Dataset},
			},
		})
		return
	}

	opts, err := h.buildOptions(req)
	if err != nil {
		code, status := classify(err)
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	result, err := pipeline.Run(readings, opts)
	if err != nil {
		code, status := classify(err)
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	id := uuid.NewString()
	ledger := convertLedger(result)

	h.mu.Lock()
	h.runs[id] = ledger
	h.mu.Unlock()

	resp := models.SimulateResponse{
		ID:      id,
		Status:  "completed",
		Summary: buildSummary(result, opts.Contract),
	}
	if req.Options.IncludeLedger {
		resp.Ledger = ledger
	}

	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/simulate/:id/ledger
func (h *SimulateHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")

	h.mu.RLock()
	ledger, ok := h.runs[id]
	h.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RUN_NOT_FOUND",
				Message: fmt.Sprintf("no run with id %s", id),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "ledger": ledger})
}

// datasetPath resolves a dataset name inside the data directory and
// rejects anything that escapes it.
func (h *SimulateHandler) datasetPath(name string) (string, error) {
	if name == "" {
		return "", errors.New("dataset name is required")
	}
	if strings.Contains(name, "..") || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid dataset name: %s", name)
	}
	return filepath.Join(h.dataDir, name), nil
}

// buildOptions merges the request overrides onto the server defaults.
func (h *SimulateHandler) buildOptions(req models.SimulateRequest) (pipeline.Options, error) {
	cfg := config.Default()

	cfg.Site = config.MergeSite(cfg.Site, config.SiteConfig{
		Name:              req.Site.Name,
		AreaCells:         req.Site.AreaCells,
		Efficiency:        req.Site.Efficiency,
		PerformanceFactor: req.Site.PerformanceFactor,
		ClientP50:         req.Site.ClientP50,
	})
	cfg.Contract = config.MergeContract(cfg.Contract, config.ContractConfig{
		Strike:     req.Contract.Strike,
		Exit:       req.Contract.Exit,
		PPA:        req.Contract.PPA,
		BlowPoint:  req.Contract.BlowPoint,
		BlowFactor: req.Contract.BlowFactor,
	})
	if req.Detrend.Method != "" {
		cfg.Detrend.Method = req.Detrend.Method
	}
	if req.Detrend.Bandwidth != 0 {
		cfg.Detrend.Bandwidth = req.Detrend.Bandwidth
	}
	if req.Detrend.StartYear != 0 {
		cfg.Detrend.StartYear = req.Detrend.StartYear
	}
	if req.Detrend.EndYear != 0 {
		cfg.Detrend.EndYear = req.Detrend.EndYear
	}
	if req.Detrend.YearStartMonth != 0 {
		cfg.Detrend.YearStartMonth = req.Detrend.YearStartMonth
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Site:           cfg.Site.ToModelParams(),
		Contract:       cfg.Contract.ToModelParams(),
		Method:         cfg.Detrend.Method,
		Bandwidth:      cfg.Detrend.Bandwidth,
		StartYear:      cfg.Detrend.StartYear,
		EndYear:        cfg.Detrend.EndYear,
		YearStartMonth: time.Month(cfg.Detrend.YearStartMonth),
	}

	if req.Options.SobolFile != "" {
		path, err := h.datasetPath(req.Options.SobolFile)
		if err != nil {
			return pipeline.Options{}, err
		}
		uniforms, err := payout.ReadUniformCSV(path)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Uniforms = uniforms
	}

	return opts, nil
}

// classify maps pipeline errors to an error code and HTTP status. Input
// problems stay 400; anything unexpected is a 500.
func classify(err error) (string, int) {
	var formatErr *data.FormatError
	var contractErr *appmodel.InvalidContractParamsError
	switch {
	case errors.As(err, &formatErr):
		return "INVALID_DATASET", http.StatusBadRequest
	case errors.Is(err, data.ErrEmptyDataset):
		return "EMPTY_DATASET", http.StatusBadRequest
	case errors.As(err, &contractErr):
		return "INVALID_CONTRACT", http.StatusBadRequest
	case errors.Is(err, detrend.ErrUnknownMethod):
		return "UNKNOWN_METHOD", http.StatusBadRequest
	case errors.Is(err, detrend.ErrInvalidBandwidth):
		return "INVALID_BANDWIDTH", http.StatusBadRequest
	case errors.Is(err, pipeline.ErrEmptyWindow):
		return "EMPTY_WINDOW", http.StatusBadRequest
	case errors.Is(err, energy.ErrNoReferenceYears):
		return "EMPTY_WINDOW", http.StatusBadRequest
	case errors.Is(err, payout.ErrNoSamples):
		return "INVALID_SOBOL", http.StatusBadRequest
	default:
		return "SIMULATION_ERROR", http.StatusInternalServerError
	}
}

func buildSummary(result *pipeline.Result, contract appmodel.ContractParams) models.RunSummary {
	s := models.RunSummary{
		Years:     result.Summary.Years,
		StartYear: result.Summary.StartYear,
		EndYear:   result.Summary.EndYear,

		MeanAnnualMWh: result.Summary.MeanMWh,
		MinAnnualMWh:  result.Summary.MinMWh,
		MaxAnnualMWh:  result.Summary.MaxMWh,
		P05AnnualMWh:  result.Summary.P05MWh,
		P95AnnualMWh:  result.Summary.P95MWh,

		PayoutLimit: contract.PayoutLimit(),
		BurnCost5:   result.BurnCost5,
		BurnCost10:  result.BurnCost10,
		BurnCost20:  result.BurnCost20,
		BurnCostAll: result.BurnCostAll,

		GammaShape: result.Gamma.Shape,
		GammaScale: result.Gamma.Scale,
	}
	if result.HasExpectedLoss {
		loss := result.ExpectedLoss
		s.ExpectedLoss = &loss
	}
	return s
}

func convertLedger(result *pipeline.Result) []models.LedgerRow {
	rows := make([]models.LedgerRow, len(result.Ledger))
	trendByYear := make(map[int]appmodel.TrendRow, len(result.Trend))
	for _, tr := range result.Trend {
		trendByYear[tr.Year] = tr
	}
	for i, row := range result.Ledger {
		tr := trendByYear[row.Year]
		rows[i] = models.LedgerRow{
			Year:            row.Year,
			RescaledMWh:     row.Rescaled,
			TrendMWh:        tr.Trend,
			ResidualMWh:     tr.Residual,
			DetrendedMWh:    row.Detrended,
			PayoutUntrended: row.PayoutUntrended,
			PayoutDetrended: row.PayoutDetrended,
		}
	}
	return rows
}
