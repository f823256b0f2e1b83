package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solar-risk/internal/detrend"
	"solar-risk/internal/model"
)

var (
	testSite = model.SiteParams{
		AreaCells:         1000,
		Efficiency:        0.2,
		PerformanceFactor: 0.8,
	}
	testContract = model.ContractParams{
		Strike:     110,
		Exit:       100,
		PPA:        1,
		BlowPoint:  90,
		BlowFactor: -30,
	}
)

// daytimeReadings builds one year of hourly readings with a crude diurnal
// shape, scaled per-year so annual totals differ.
func daytimeReadings(years []float64) []model.Reading {
	var out []model.Reading
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	yearIdx := 0
	for t := start; yearIdx < len(years); t = t.Add(time.Hour) {
		if t.Year()-2015 >= len(years) {
			break
		}
		yearIdx = t.Year() - 2015
		v := 0.0
		if h := t.Hour(); h >= 8 && h <= 16 {
			v = 2_000_000 * years[yearIdx]
		}
		out = append(out, model.Reading{Timestamp: t, Value: v})
	}
	return out
}

func defaultOpts() Options {
	return Options{
		Site:           testSite,
		Contract:       testContract,
		Method:         detrend.MethodLinear,
		StartYear:      2014,
		EndYear:        2020,
		YearStartMonth: time.January,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	readings := daytimeReadings([]float64{1.0, 1.1, 0.9, 1.05})

	res, err := Run(readings, defaultOpts())
	require.NoError(t, err)

	require.NotEmpty(t, res.Hourly)
	require.NotEmpty(t, res.Monthly)
	require.Len(t, res.Annual, 4)
	require.Len(t, res.Trend, 4)
	require.Len(t, res.Ledger, 4)
	require.Equal(t, res.Summary.Years, 4)
	require.NotEmpty(t, res.Seasonality)
	require.False(t, res.HasExpectedLoss)

	// Without a client P50 the rescaled series equals the raw series.
	for _, row := range res.Annual {
		require.InDelta(t, row.EnergyMWh, row.RescaledMWh, 1e-9)
	}
}

func TestRun_IsDeterministic(t *testing.T) {
	readings := daytimeReadings([]float64{1.0, 1.2, 0.8})
	opts := defaultOpts()

	a, err := Run(readings, opts)
	require.NoError(t, err)
	b, err := Run(readings, opts)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRun_WindowFiltersYears(t *testing.T) {
	readings := daytimeReadings([]float64{1.0, 1.1, 0.9, 1.05})
	opts := defaultOpts()
	opts.StartYear = 2016
	opts.EndYear = 2017

	res, err := Run(readings, opts)
	require.NoError(t, err)
	require.Len(t, res.Annual, 4) // full series kept for reporting
	require.Len(t, res.Trend, 2)  // detrend window honored
	require.Equal(t, 2016, res.Trend[0].Year)
	require.Equal(t, 2017, res.Trend[1].Year)
}

func TestRun_EmptyWindow(t *testing.T) {
	readings := daytimeReadings([]float64{1.0})
	opts := defaultOpts()
	opts.StartYear = 1990
	opts.EndYear = 1991

	_, err := Run(readings, opts)
	require.ErrorIs(t, err, ErrEmptyWindow)
}

func TestRun_InvalidContractFailsBeforeAggregation(t *testing.T) {
	opts := defaultOpts()
	opts.Contract.Exit = opts.Contract.Strike + 1

	_, err := Run(daytimeReadings([]float64{1.0}), opts)
	var ice *model.InvalidContractParamsError
	require.ErrorAs(t, err, &ice)
}

func TestRun_UnknownMethod(t *testing.T) {
	opts := defaultOpts()
	opts.Method = "loess"

	_, err := Run(daytimeReadings([]float64{1.0}), opts)
	require.ErrorIs(t, err, detrend.ErrUnknownMethod)
}

func TestRun_ExpectedLossWithUniforms(t *testing.T) {
	opts := defaultOpts()
	opts.Method = detrend.MethodKernel
	opts.Bandwidth = 3
	opts.Uniforms = []float64{0.1, 0.25, 0.5, 0.75, 0.9}

	res, err := Run(daytimeReadings([]float64{1.0, 1.1, 0.9, 1.05}), opts)
	require.NoError(t, err)
	require.True(t, res.HasExpectedLoss)
	require.GreaterOrEqual(t, res.ExpectedLoss, 0.0)
	require.LessOrEqual(t, res.ExpectedLoss, opts.Contract.PayoutLimit())
}

func TestRun_RescaleToClientP50(t *testing.T) {
	opts := defaultOpts()
	opts.Site.ClientP50 = 500

	res, err := Run(daytimeReadings([]float64{1.0, 1.1, 0.9, 1.05}), opts)
	require.NoError(t, err)

	sum := 0.0
	for _, row := range res.Annual {
		sum += row.RescaledMWh
	}
	require.InDelta(t, 500, sum/float64(len(res.Annual)), 1e-6)
}
