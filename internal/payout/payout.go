// Package payout prices a generation-shortfall contract against annual
// settlement energy.
package payout

import (
	"math"

	"solar-risk/internal/model"
)

// Row is one settled generation year, priced on both the rescaled and the
// detrended settlement series.
type Row struct {
	Year            int
	Rescaled        float64
	Detrended       float64
	PayoutUntrended float64
	PayoutDetrended float64
}

// Amount prices a single settlement:
//
//	min((strike-exit)*ppa, max(0, strike-settlement)*ppa)
//
// Zero above the strike, linear in the shortfall below it, capped once the
// settlement reaches the exit.
func Amount(settlement float64, p model.ContractParams) float64 {
	shortfall := math.Max(0, p.Strike-settlement)
	return math.Min(p.PayoutLimit(), shortfall*p.PPA)
}

// Simulate prices every period of a detrended series. Pure: identical
// inputs yield identical rows, and the inputs are never mutated.
func Simulate(trend []model.TrendRow, p model.ContractParams) ([]Row, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]Row, len(trend))
	for i, tr := range trend {
		out[i] = Row{
			Year:            tr.Year,
			Rescaled:        tr.Raw,
			Detrended:       tr.Detrended,
			PayoutUntrended: Amount(tr.Raw, p),
			PayoutDetrended: Amount(tr.Detrended, p),
		}
	}
	return out, nil
}

// Records projects the detrended side of a ledger into settlement records.
func Records(rows []Row) []model.PayoutRecord {
	out := make([]model.PayoutRecord, len(rows))
	for i, r := range rows {
		out[i] = model.PayoutRecord{Year: r.Year, Settlement: r.Detrended, Payout: r.PayoutDetrended}
	}
	return out
}

// BurnCost is the mean detrended payout over the trailing window years.
// window <= 0 averages the whole ledger. Returns 0 for an empty ledger.
func BurnCost(rows []Row, window int) float64 {
	if len(rows) == 0 {
		return 0
	}
	start := 0
	if window > 0 && window < len(rows) {
		start = len(rows) - window
	}
	sum := 0.0
	for _, r := range rows[start:] {
		sum += r.PayoutDetrended
	}
	return sum / float64(len(rows)-start)
}
