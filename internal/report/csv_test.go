package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"solar-risk/internal/model"
	"solar-risk/internal/payout"
)

func sampleRun() ([]model.TrendRow, []payout.Row) {
	trend := []model.TrendRow{
		{Year: 2019, Raw: 100, Trend: 102, Residual: -2, Detrended: 101},
		{Year: 2020, Raw: 110, Trend: 103, Residual: 7, Detrended: 110},
	}
	ledger := []payout.Row{
		{Year: 2019, Rescaled: 100, Detrended: 101, PayoutUntrended: 10, PayoutDetrended: 9},
		{Year: 2020, Rescaled: 110, Detrended: 110, PayoutUntrended: 0, PayoutDetrended: 0},
	}
	return trend, ledger
}

func TestWriteLedgerCSV(t *testing.T) {
	trend, ledger := sampleRun()
	path := filepath.Join(t.TempDir(), "ledger.csv")

	require.NoError(t, WriteLedgerCSV(path, trend, ledger))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 years
	require.Equal(t, "year", rows[0][0])
	require.Equal(t, "2019", rows[1][0])
	require.Equal(t, "9.000000", rows[1][6])
}

func TestWriteAnnualCSV(t *testing.T) {
	annual := []model.AnnualRow{
		{Year: 2019, EnergyMWh: 100, RescaledMWh: 105},
	}
	path := filepath.Join(t.TempDir(), "annual.csv")
	require.NoError(t, WriteAnnualCSV(path, annual))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "2019,100.000000,105.000000")
}

func TestRenderAll_WritesPlotSet(t *testing.T) {
	trend, ledger := sampleRun()
	dir := t.TempDir()

	contract := model.ContractParams{Strike: 110, Exit: 100, PPA: 1, BlowPoint: 90, BlowFactor: -30}
	fit := payout.FitGamma([]float64{101, 110})

	paths, err := RenderAll(dir, trend, ledger, nil, fit, contract)
	require.NoError(t, err)
	require.Len(t, paths, 5)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Greater(t, info.Size(), int64(0))
	}
}
