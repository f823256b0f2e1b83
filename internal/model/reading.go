package model

import (
	"fmt"
	"sort"
	"time"
)

// Reading is one observation of surface solar radiation downwards (SSRD).
//
// Value is the hourly accumulated irradiance in J/m^2, as delivered by
// ERA5-style exports. It is converted to plant energy by the energy package.
type Reading struct {
	Timestamp time.Time
	Value     float64 // J/m^2, >= 0
}

// SortReadings orders readings by timestamp ascending and rejects duplicate
// timestamps. The rest of the pipeline assumes a strictly increasing series.
func SortReadings(readings []Reading) ([]Reading, error) {
	out := make([]Reading, len(readings))
	copy(out, readings)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	for i := 1; i < len(out); i++ {
		if out[i].Timestamp.Equal(out[i-1].Timestamp) {
			return nil, fmt.Errorf("duplicate timestamp %s", out[i].Timestamp.Format(time.RFC3339))
		}
	}
	return out, nil
}

// Period identifies one bucket of an aggregated series.
// Start is the bucket's opening instant; Label is a stable human-readable
// form intended for CSV output and plot axes.
type Period struct {
	Start time.Time
	Label string
}

// AggregateRow is one (period, total) pair of an aggregated energy series.
type AggregateRow struct {
	Period Period
	// EnergyKWh is the bucket total in kWh for hourly/monthly rows.
	EnergyKWh float64
	// EnergyMWh is the bucket total in MWh (EnergyKWh / 1000).
	EnergyMWh float64
}

// AnnualRow is one generation year of the annual series.
type AnnualRow struct {
	// Year labels the generation year by its starting calendar year.
	Year int
	// EnergyMWh is the raw modeled annual energy.
	EnergyMWh float64
	// RescaledMWh is EnergyMWh scaled so the reference-window mean matches
	// the client P50. Zero until rescaling is applied.
	RescaledMWh float64
}

// TrendRow is one period of a detrended annual series.
type TrendRow struct {
	Year     int
	Raw      float64 // settlement input (rescaled annual energy, MWh)
	Trend    float64 // smoothed value at this period
	Residual float64 // Raw - Trend
	// Detrended anchors the residuals to the trend value at the last
	// period, so the series keeps a current-technology level.
	Detrended float64
}
