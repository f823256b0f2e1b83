package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"solar-risk/internal/model"
	"solar-risk/internal/payout"
)

// WriteLedgerCSV writes the per-year payout ledger. This is the primary
// "what happened" artifact of a run.
func WriteLedgerCSV(path string, trend []model.TrendRow, ledger []payout.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year",
		"rescaled_energy_mwh",
		"trend_mwh",
		"residual_mwh",
		"detrended_mwh",
		"payout_untrended",
		"payout_detrended",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, r := range ledger {
		row := []string{
			strconv.Itoa(r.Year),
			fmtFloat(r.Rescaled),
			fmtFloat(trend[i].Trend),
			fmtFloat(trend[i].Residual),
			fmtFloat(r.Detrended),
			fmtFloat(r.PayoutUntrended),
			fmtFloat(r.PayoutDetrended),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteAnnualCSV writes the full annual energy table.
func WriteAnnualCSV(path string, annual []model.AnnualRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"year", "energy_mwh", "rescaled_energy_mwh"}); err != nil {
		return err
	}
	for _, r := range annual {
		row := []string{
			strconv.Itoa(r.Year),
			fmtFloat(r.EnergyMWh),
			fmtFloat(r.RescaledMWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
