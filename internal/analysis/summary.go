package analysis

import (
	"math"
	"sort"
	"time"

	"solar-risk/internal/model"
)

// AnnualSummary is a series-level digest used for ranking datasets and for
// the run report header.
type AnnualSummary struct {
	Years     int
	StartYear int
	EndYear   int

	MinMWh  float64
	MaxMWh  float64
	MeanMWh float64
	P05MWh  float64
	P95MWh  float64

	SpreadP95P05 float64
}

// Summarize computes order statistics over the raw annual energy series.
func Summarize(annual []model.AnnualRow) AnnualSummary {
	s := AnnualSummary{}
	if len(annual) == 0 {
		return s
	}
	s.Years = len(annual)
	s.StartYear = annual[0].Year
	s.EndYear = annual[len(annual)-1].Year

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(annual))
	for _, row := range annual {
		v := row.EnergyMWh
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.MinMWh = minv
	s.MaxMWh = maxv
	s.MeanMWh = sum / float64(len(vals))
	s.P05MWh = PercentileSorted(vals, 0.05)
	s.P95MWh = PercentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95MWh - s.P05MWh
	return s
}

// PercentileSorted interpolates the q-quantile of an ascending slice.
func PercentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Percentiles evaluates many quantiles at once over an unsorted slice.
func Percentiles(values []float64, qs []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = PercentileSorted(sorted, q)
	}
	return out
}

// MonthMean is the average production of one calendar month across years.
type MonthMean struct {
	Month   time.Month
	MeanMWh float64
	// High marks months at or above the median month, the same split the
	// seasonality plot colors by.
	High bool
}

// Seasonality averages a monthly series by calendar month. Months absent
// from the input are omitted.
func Seasonality(monthly []model.AggregateRow) []MonthMean {
	var sums [13]float64
	var counts [13]int
	for _, row := range monthly {
		m := row.Period.Start.Month()
		sums[m] += row.EnergyMWh
		counts[m]++
	}

	out := make([]MonthMean, 0, 12)
	means := make([]float64, 0, 12)
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		mean := sums[m] / float64(counts[m])
		out = append(out, MonthMean{Month: m, MeanMWh: mean})
		means = append(means, mean)
	}

	if len(out) == 0 {
		return out
	}
	sort.Float64s(means)
	median := PercentileSorted(means, 0.5)
	for i := range out {
		out[i].High = out[i].MeanMWh >= median
	}
	return out
}
