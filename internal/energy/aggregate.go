// Package energy rolls raw SSRD readings up to hourly, monthly and annual
// plant-energy totals.
package energy

import (
	"errors"
	"time"

	"solar-risk/internal/model"
)

// Hourly converts readings to plant energy and groups them into hour
// buckets keyed by the truncated timestamp. Hours with no readings are
// omitted rather than zero-filled.
func Hourly(readings []model.Reading, site model.SiteParams) []model.AggregateRow {
	rows := make([]model.AggregateRow, 0, len(readings))
	var cur *model.AggregateRow
	for _, r := range readings {
		hour := r.Timestamp.Truncate(time.Hour)
		kwh := site.HourlyEnergyKWh(r.Value)
		if cur != nil && cur.Period.Start.Equal(hour) {
			cur.EnergyKWh += kwh
			cur.EnergyMWh = cur.EnergyKWh / 1000.0
			continue
		}
		rows = append(rows, model.AggregateRow{
			Period:    model.Period{Start: hour, Label: hour.Format("2006-01-02 15:00")},
			EnergyKWh: kwh,
			EnergyMWh: kwh / 1000.0,
		})
		cur = &rows[len(rows)-1]
	}
	return rows
}

// Monthly sums an hourly series into calendar-month buckets.
func Monthly(hourly []model.AggregateRow) []model.AggregateRow {
	return regroup(hourly, func(t time.Time) (time.Time, string) {
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start, start.Format("2006-01")
	})
}

// Annual sums a monthly series into generation years. startMonth anchors
// the year: January gives plain calendar years, September gives the
// Sept-to-Aug generation years the settlement data uses. A month belongs
// to the generation year labeled by the calendar year in which that
// generation year started.
func Annual(monthly []model.AggregateRow, startMonth time.Month) []model.AnnualRow {
	grouped := regroup(monthly, func(t time.Time) (time.Time, string) {
		year := t.Year()
		if t.Month() < startMonth {
			year--
		}
		start := time.Date(year, startMonth, 1, 0, 0, 0, 0, t.Location())
		return start, start.Format("2006")
	})

	out := make([]model.AnnualRow, 0, len(grouped))
	for _, g := range grouped {
		out = append(out, model.AnnualRow{
			Year:      g.Period.Start.Year(),
			EnergyMWh: g.EnergyMWh,
		})
	}
	return out
}

// AnnualDirect aggregates readings straight to generation years, without
// the hourly and monthly intermediates. It must agree with
// Annual(Monthly(Hourly(x))) for any input.
func AnnualDirect(readings []model.Reading, site model.SiteParams, startMonth time.Month) []model.AnnualRow {
	out := make([]model.AnnualRow, 0)
	var cur *model.AnnualRow
	var curKWh float64
	for _, r := range readings {
		year := r.Timestamp.Year()
		if r.Timestamp.Month() < startMonth {
			year--
		}
		kwh := site.HourlyEnergyKWh(r.Value)
		if cur != nil && cur.Year == year {
			curKWh += kwh
			cur.EnergyMWh = curKWh / 1000.0
			continue
		}
		out = append(out, model.AnnualRow{Year: year, EnergyMWh: kwh / 1000.0})
		cur = &out[len(out)-1]
		curKWh = kwh
	}
	return out
}

// regroup folds consecutive rows into coarser buckets. Input rows are
// time-ordered, so one forward pass suffices.
func regroup(rows []model.AggregateRow, bucket func(time.Time) (time.Time, string)) []model.AggregateRow {
	out := make([]model.AggregateRow, 0)
	var cur *model.AggregateRow
	for _, r := range rows {
		start, label := bucket(r.Period.Start)
		if cur != nil && cur.Period.Start.Equal(start) {
			cur.EnergyKWh += r.EnergyKWh
			cur.EnergyMWh = cur.EnergyKWh / 1000.0
			continue
		}
		out = append(out, model.AggregateRow{
			Period:    model.Period{Start: start, Label: label},
			EnergyKWh: r.EnergyKWh,
			EnergyMWh: r.EnergyKWh / 1000.0,
		})
		cur = &out[len(out)-1]
	}
	return out
}

// ErrNoReferenceYears is returned when the rescaling window selects nothing.
var ErrNoReferenceYears = errors.New("no annual rows inside reference window")

// Rescale scales the annual series so that its mean over [refStart, refEnd]
// (inclusive, by generation-year label) equals the client P50. With
// ClientP50 == 0 the series is passed through unscaled.
func Rescale(annual []model.AnnualRow, site model.SiteParams, refStart, refEnd int) ([]model.AnnualRow, error) {
	out := make([]model.AnnualRow, len(annual))
	copy(out, annual)

	if site.ClientP50 == 0 {
		for i := range out {
			out[i].RescaledMWh = out[i].EnergyMWh
		}
		return out, nil
	}

	sum, n := 0.0, 0
	for _, row := range annual {
		if row.Year >= refStart && row.Year <= refEnd {
			sum += row.EnergyMWh
			n++
		}
	}
	if n == 0 || sum == 0 {
		return nil, ErrNoReferenceYears
	}

	factor := site.ClientP50 / (sum / float64(n))
	for i := range out {
		out[i].RescaledMWh = out[i].EnergyMWh * factor
	}
	return out, nil
}

// FilterYears keeps the annual rows with refStart <= Year <= refEnd.
func FilterYears(annual []model.AnnualRow, start, end int) []model.AnnualRow {
	out := make([]model.AnnualRow, 0, len(annual))
	for _, row := range annual {
		if row.Year >= start && row.Year <= end {
			out = append(out, row)
		}
	}
	return out
}
