// Package pipeline threads the analysis stages together:
// readings -> energy aggregates -> detrended annual series -> payouts.
package pipeline

import (
	"errors"
	"time"

	"solar-risk/internal/analysis"
	"solar-risk/internal/detrend"
	"solar-risk/internal/energy"
	"solar-risk/internal/model"
	"solar-risk/internal/payout"
)

// Options is one run's full parameter set. Built by the caller (CLI flags
// over config file, or an API request), validated once here, never read
// from ambient state.
type Options struct {
	Site     model.SiteParams
	Contract model.ContractParams

	Method    string
	Bandwidth float64

	// StartYear..EndYear bounds the generation years that are detrended
	// and priced. The rescaling reference uses the full annual series.
	StartYear int
	EndYear   int

	// YearStartMonth anchors generation years (September by default
	// upstream; January gives plain calendar years).
	YearStartMonth time.Month

	// Uniforms feeds the Monte-Carlo expected loss. Empty skips it.
	Uniforms []float64
}

// Result carries every stage's output for reporting.
type Result struct {
	Hourly  []model.AggregateRow
	Monthly []model.AggregateRow
	Annual  []model.AnnualRow // full series, rescaled

	Trend  []model.TrendRow // detrended [StartYear, EndYear] window
	Ledger []payout.Row

	Summary     analysis.AnnualSummary
	Seasonality []analysis.MonthMean

	// Burn costs are trailing means of the detrended payout.
	BurnCost5   float64
	BurnCost10  float64
	BurnCost20  float64
	BurnCostAll float64

	Gamma payout.GammaFit

	// ExpectedLoss is set only when uniforms were supplied.
	ExpectedLoss    float64
	HasExpectedLoss bool
}

// ErrEmptyWindow is returned when no generation years survive the
// start/end filter.
var ErrEmptyWindow = errors.New("no generation years inside start/end window")

// Run executes the whole pipeline over loaded readings. Deterministic and
// side-effect free; each stage consumes the previous stage's output.
func Run(readings []model.Reading, opts Options) (*Result, error) {
	if err := opts.Site.Validate(); err != nil {
		return nil, err
	}
	// Contract problems surface before any aggregation work.
	if err := opts.Contract.Validate(); err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, errors.New("no readings")
	}

	startMonth := opts.YearStartMonth
	if startMonth == 0 {
		startMonth = time.September
	}

	res := &Result{}
	res.Hourly = energy.Hourly(readings, opts.Site)
	res.Monthly = energy.Monthly(res.Hourly)

	annual := energy.Annual(res.Monthly, startMonth)
	annual, err := energy.Rescale(annual, opts.Site, minYear(annual), maxYear(annual))
	if err != nil {
		return nil, err
	}
	res.Annual = annual

	window := energy.FilterYears(annual, opts.StartYear, opts.EndYear)
	if len(window) == 0 {
		return nil, ErrEmptyWindow
	}

	res.Trend, err = detrend.Detrend(window, opts.Method, opts.Bandwidth)
	if err != nil {
		return nil, err
	}

	res.Ledger, err = payout.Simulate(res.Trend, opts.Contract)
	if err != nil {
		return nil, err
	}

	res.Summary = analysis.Summarize(annual)
	res.Seasonality = analysis.Seasonality(res.Monthly)

	res.BurnCost5 = payout.BurnCost(res.Ledger, 5)
	res.BurnCost10 = payout.BurnCost(res.Ledger, 10)
	res.BurnCost20 = payout.BurnCost(res.Ledger, 20)
	res.BurnCostAll = payout.BurnCost(res.Ledger, 0)

	detrended := make([]float64, len(res.Trend))
	for i, tr := range res.Trend {
		detrended[i] = tr.Detrended
	}
	res.Gamma = payout.FitGamma(detrended)

	if len(opts.Uniforms) > 0 {
		loss, err := payout.ExpectedLoss(opts.Uniforms, res.Gamma, opts.Contract)
		if err != nil {
			return nil, err
		}
		res.ExpectedLoss = loss
		res.HasExpectedLoss = true
	}

	return res, nil
}

func minYear(annual []model.AnnualRow) int {
	if len(annual) == 0 {
		return 0
	}
	return annual[0].Year
}

func maxYear(annual []model.AnnualRow) int {
	if len(annual) == 0 {
		return 0
	}
	return annual[len(annual)-1].Year
}
