// Plot rendering for run reports. Thin presentation layer: every function
// takes finished pipeline output and writes one PNG.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"solar-risk/internal/analysis"
	"solar-risk/internal/model"
	"solar-risk/internal/payout"
)

const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// PlotAnnualTrend draws the raw annual series with its smoothed trend.
func PlotAnnualTrend(path string, trend []model.TrendRow) error {
	p := plot.New()
	p.Title.Text = "Annual Energy Trend"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Energy (MWh)"

	raw := make(plotter.XYs, len(trend))
	smoothed := make(plotter.XYs, len(trend))
	for i, r := range trend {
		raw[i] = plotter.XY{X: float64(r.Year), Y: r.Raw}
		smoothed[i] = plotter.XY{X: float64(r.Year), Y: r.Trend}
	}

	if err := plotutil.AddLinePoints(p, "Raw", raw, "Trend", smoothed); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

// PlotDetrendedComparison overlays the rescaled and detrended series.
func PlotDetrendedComparison(path string, trend []model.TrendRow) error {
	p := plot.New()
	p.Title.Text = "Rescaled vs Detrended Energy"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Energy (MWh)"

	raw := make(plotter.XYs, len(trend))
	det := make(plotter.XYs, len(trend))
	for i, r := range trend {
		raw[i] = plotter.XY{X: float64(r.Year), Y: r.Raw}
		det[i] = plotter.XY{X: float64(r.Year), Y: r.Detrended}
	}

	if err := plotutil.AddLinePoints(p, "Rescaled", raw, "Detrended", det); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

// PlotPayoutBars draws the per-year detrended payout.
func PlotPayoutBars(path string, ledger []payout.Row) error {
	p := plot.New()
	p.Title.Text = "Payouts by Generation Year"
	p.Y.Label.Text = "Payout"

	values := make(plotter.Values, len(ledger))
	labels := make([]string, len(ledger))
	for i, r := range ledger {
		values[i] = r.PayoutDetrended
		labels[i] = fmt.Sprintf("%d", r.Year)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)
	return p.Save(plotWidth, plotHeight, path)
}

// PlotSeasonality draws mean production by calendar month.
func PlotSeasonality(path string, months []analysis.MonthMean) error {
	p := plot.New()
	p.Title.Text = "Monthly Seasonality"
	p.Y.Label.Text = "Mean Energy (MWh)"

	values := make(plotter.Values, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		values[i] = m.MeanMWh
		labels[i] = m.Month.String()[:3]
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)
	return p.Save(plotWidth, plotHeight, path)
}

// PlotDistribution compares the empirical detrended percentiles with the
// fitted gamma and its blown counterpart, with the contract thresholds as
// horizontal rules.
func PlotDistribution(path string, detrended []float64, fit payout.GammaFit, contract model.ContractParams) error {
	p := plot.New()
	p.Title.Text = "Settlement Distribution (percentiles)"
	p.X.Label.Text = "Percentile"
	p.Y.Label.Text = "Energy (MWh)"

	qs := make([]float64, 99)
	for i := range qs {
		qs[i] = float64(i+1) / 100.0
	}

	empirical := analysis.Percentiles(detrended, qs)
	gammaVals := make([]float64, len(qs))
	for i, q := range qs {
		gammaVals[i] = fit.Quantile(q)
	}
	blown := payout.Blow(gammaVals, contract.BlowPoint, contract.BlowFactor, payout.Down, 0)

	toXYs := func(ys []float64) plotter.XYs {
		xys := make(plotter.XYs, len(qs))
		for i := range qs {
			xys[i] = plotter.XY{X: qs[i], Y: ys[i]}
		}
		return xys
	}

	if err := plotutil.AddLines(p,
		"Empirical", toXYs(empirical),
		"Gamma", toXYs(gammaVals),
		"Gamma+Blow", toXYs(blown),
	); err != nil {
		return err
	}

	for _, rule := range []struct {
		name  string
		level float64
	}{{"Strike", contract.Strike}, {"Exit", contract.Exit}} {
		line := plotter.XYs{{X: qs[0], Y: rule.level}, {X: qs[len(qs)-1], Y: rule.level}}
		l, err := plotter.NewLine(line)
		if err != nil {
			return err
		}
		p.Add(l)
		p.Legend.Add(rule.name, l)
	}

	return p.Save(plotWidth, plotHeight, path)
}

// RenderAll writes the standard plot set into dir and returns the paths.
func RenderAll(dir string, trend []model.TrendRow, ledger []payout.Row, months []analysis.MonthMean, fit payout.GammaFit, contract model.ContractParams) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	detrended := make([]float64, len(trend))
	for i, r := range trend {
		detrended[i] = r.Detrended
	}

	type job struct {
		name   string
		render func(string) error
	}
	jobs := []job{
		{"annual_trend.png", func(p string) error { return PlotAnnualTrend(p, trend) }},
		{"detrended_comparison.png", func(p string) error { return PlotDetrendedComparison(p, trend) }},
		{"payout_bars.png", func(p string) error { return PlotPayoutBars(p, ledger) }},
		{"seasonality.png", func(p string) error { return PlotSeasonality(p, months) }},
		{"distribution.png", func(p string) error { return PlotDistribution(p, detrended, fit, contract) }},
	}

	paths := make([]string, 0, len(jobs))
	for _, j := range jobs {
		path := filepath.Join(dir, j.name)
		if err := j.render(path); err != nil {
			return nil, fmt.Errorf("render %s: %w", j.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
