package payout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"solar-risk/internal/model"
)

// contract pins the numeric convention for the whole suite: shortfall
// protection with a payout corridor between exit and strike.
var contract = model.ContractParams{
	Strike:     110,
	Exit:       100,
	PPA:        1,
	BlowPoint:  90,
	BlowFactor: 2,
}

func trendRows(settlements []float64) []model.TrendRow {
	out := make([]model.TrendRow, len(settlements))
	for i, v := range settlements {
		out[i] = model.TrendRow{Year: 2000 + i, Raw: v, Trend: v, Detrended: v}
	}
	return out
}

func TestAmount_WorkedExample(t *testing.T) {
	// Settlements [100, 120, 80] with strike=110, exit=100, ppa=1:
	// limit = 10. Period 1 sits exactly at the exit, period 2 above the
	// strike, period 3 deep in the shortfall and capped at the limit.
	require.InDelta(t, 10, Amount(100, contract), 1e-12)
	require.InDelta(t, 0, Amount(120, contract), 1e-12)
	require.InDelta(t, 10, Amount(80, contract), 1e-12)
}

func TestAmount_StrikeBoundary(t *testing.T) {
	// Settlement exactly at the strike: zero payout.
	require.Equal(t, 0.0, Amount(contract.Strike, contract))
	// Just below: linear in the shortfall.
	require.InDelta(t, 0.5, Amount(contract.Strike-0.5, contract), 1e-12)
}

func TestAmount_ExitBoundaryCapsAtLimit(t *testing.T) {
	limit := contract.PayoutLimit()
	require.InDelta(t, limit, Amount(contract.Exit, contract), 1e-12)
	// Below the exit the payout stays at the cap.
	require.InDelta(t, limit, Amount(contract.Exit-25, contract), 1e-12)
}

func TestAmount_ScalesWithPPA(t *testing.T) {
	scaled := contract
	scaled.PPA = 5000
	require.InDelta(t, 5000*3, Amount(107, scaled), 1e-9)
	require.InDelta(t, scaled.PayoutLimit(), Amount(50, scaled), 1e-9)
}

func TestSimulate_IsPure(t *testing.T) {
	trend := trendRows([]float64{100, 120, 80})

	first, err := Simulate(trend, contract)
	require.NoError(t, err)
	second, err := Simulate(trend, contract)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// Inputs untouched.
	require.Equal(t, 100.0, trend[0].Detrended)
}

func TestSimulate_PricesBothSeries(t *testing.T) {
	trend := []model.TrendRow{
		{Year: 2020, Raw: 120, Detrended: 80},
	}
	rows, err := Simulate(trend, contract)
	require.NoError(t, err)
	require.InDelta(t, 0, rows[0].PayoutUntrended, 1e-12)
	require.InDelta(t, 10, rows[0].PayoutDetrended, 1e-12)
}

func TestSimulate_RejectsInvalidContract(t *testing.T) {
	bad := contract
	bad.Exit = bad.Strike // corridor collapses
	_, err := Simulate(trendRows([]float64{100}), bad)
	var ice *model.InvalidContractParamsError
	require.ErrorAs(t, err, &ice)
	require.Equal(t, "exit", ice.Field)

	bad = contract
	bad.PPA = 0
	_, err = Simulate(trendRows([]float64{100}), bad)
	require.ErrorAs(t, err, &ice)
}

func TestRecords_ProjectsDetrendedSide(t *testing.T) {
	rows, err := Simulate(trendRows([]float64{100, 120, 80}), contract)
	require.NoError(t, err)
	recs := Records(rows)
	require.Len(t, recs, 3)
	require.Equal(t, 2002, recs[2].Year)
	require.InDelta(t, 80, recs[2].Settlement, 1e-12)
	require.InDelta(t, 10, recs[2].Payout, 1e-12)
}

func TestBurnCost_TrailingWindows(t *testing.T) {
	rows := []Row{
		{Year: 2016, PayoutDetrended: 0},
		{Year: 2017, PayoutDetrended: 10},
		{Year: 2018, PayoutDetrended: 0},
		{Year: 2019, PayoutDetrended: 10},
		{Year: 2020, PayoutDetrended: 10},
	}
	require.InDelta(t, 10, BurnCost(rows, 2), 1e-12)
	require.InDelta(t, 20.0/3.0, BurnCost(rows, 3), 1e-12)
	require.InDelta(t, 6, BurnCost(rows, 0), 1e-12)    // whole ledger
	require.InDelta(t, 6, BurnCost(rows, 100), 1e-12)  // window larger than ledger
	require.Equal(t, 0.0, BurnCost(nil, 5))
}

func TestBlow_Down(t *testing.T) {
	// factor=-30 widens the lower tail: 80 -> 90 - 10*e^{0.3}.
	got := Blow([]float64{80, 95}, 90, -30, Down, 0)
	require.InDelta(t, 90-10*math.Exp(0.3), got[0], 1e-9)
	require.Equal(t, 95.0, got[1]) // above the point: untouched
}

func TestBlow_Up(t *testing.T) {
	got := Blow([]float64{80, 95}, 90, -30, Up, 0)
	require.Equal(t, 80.0, got[0])
	require.InDelta(t, 90+5*math.Exp(0.3), got[1], 1e-9)
}

func TestBlow_Shift(t *testing.T) {
	got := Blow([]float64{90}, 90, -30, Down, 2.5)
	require.InDelta(t, 92.5, got[0], 1e-12)
}

func TestBlow_ZeroFactorIsIdentity(t *testing.T) {
	in := []float64{70, 90, 110}
	got := Blow(in, 90, 0, Down, 0)
	require.Equal(t, in, got)
}

func TestFitGamma_MomentMatching(t *testing.T) {
	values := []float64{100, 110, 90, 105, 95}
	fit := FitGamma(values)
	require.InDelta(t, 100, fit.Mean, 1e-9)
	require.InDelta(t, fit.Shape*fit.Scale, fit.Mean, 1e-9)                 // k*theta = mean
	require.InDelta(t, fit.Shape*fit.Scale*fit.Scale, fit.Std*fit.Std, 1e-9) // k*theta^2 = var
}

func TestFitGamma_DegenerateInputs(t *testing.T) {
	fit := FitGamma(nil)
	require.Equal(t, 1.0, fit.Shape)
	require.Equal(t, 1.0, fit.Scale)

	// Constant series: zero variance falls back to shape 1.
	fit = FitGamma([]float64{5, 5, 5})
	require.Equal(t, 1.0, fit.Shape)
}

func TestGammaQuantile_MedianNearMeanForTightFit(t *testing.T) {
	// High shape: gamma is nearly symmetric, median close to mean.
	fit := GammaFit{Mean: 100, Std: 5, Shape: 400, Scale: 0.25}
	q := fit.Quantile(0.5)
	require.InDelta(t, 100, q, 1.0)
	// Quantile is monotone.
	require.Less(t, fit.Quantile(0.1), fit.Quantile(0.9))
}

func TestExpectedLoss_DeepShortfallHitsLimit(t *testing.T) {
	// A fit centered far below the exit: every sample pays the limit.
	fit := GammaFit{Shape: 400, Scale: 0.1} // mean 40, tiny spread
	uniforms := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	loss, err := ExpectedLoss(uniforms, fit, contract)
	require.NoError(t, err)
	require.InDelta(t, contract.PayoutLimit(), loss, 1e-9)
}

func TestExpectedLoss_HighProductionPaysNothing(t *testing.T) {
	fit := GammaFit{Shape: 400, Scale: 0.5} // mean 200, far above strike
	uniforms := []float64{0.2, 0.5, 0.8}
	loss, err := ExpectedLoss(uniforms, fit, contract)
	require.NoError(t, err)
	require.InDelta(t, 0, loss, 1e-9)
}

func TestExpectedLoss_WideningBlowRaisesLoss(t *testing.T) {
	fit := GammaFit{Shape: 100, Scale: 1} // mean 100, sd 10: straddles the corridor
	uniforms := make([]float64, 99)
	for i := range uniforms {
		uniforms[i] = float64(i+1) / 100.0
	}

	mild := contract
	mild.BlowFactor = 0
	wide := contract
	wide.BlowFactor = -30 // widens the lower tail

	lossMild, err := ExpectedLoss(uniforms, fit, mild)
	require.NoError(t, err)
	lossWide, err := ExpectedLoss(uniforms, fit, wide)
	require.NoError(t, err)
	require.GreaterOrEqual(t, lossWide, lossMild)
}

func TestExpectedLoss_ValidatesContract(t *testing.T) {
	bad := contract
	bad.BlowPoint = 0
	_, err := ExpectedLoss([]float64{0.5}, GammaFit{Shape: 1, Scale: 1}, bad)
	var ice *model.InvalidContractParamsError
	require.ErrorAs(t, err, &ice)
}
