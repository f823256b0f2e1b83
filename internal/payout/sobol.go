package payout

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"solar-risk/internal/model"
)

// ErrNoSamples is returned when a uniform-sample file yields nothing usable.
var ErrNoSamples = errors.New("no uniform samples in file")

// ReadUniformCSV loads low-discrepancy (Sobol) uniforms from the first
// column of a CSV file. A non-numeric first row is treated as a header.
// Every sample must lie in [0, 1].
func ReadUniformCSV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	out := make([]float64, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		field := strings.TrimSpace(row[0])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("%s:%d: cannot parse %q: %w", path, i+1, field, err)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("%s:%d: sample %g outside [0,1]", path, i+1, v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, ErrNoSamples
	}
	return out, nil
}

// ExpectedLoss maps uniform samples through the fitted gamma quantile,
// applies the downward blow transform, and averages the capped payout.
// This is the Monte-Carlo counterpart of the historical burn cost.
func ExpectedLoss(uniforms []float64, fit GammaFit, p model.ContractParams) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if len(uniforms) == 0 {
		return 0, ErrNoSamples
	}

	simulated := make([]float64, len(uniforms))
	for i, u := range uniforms {
		simulated[i] = fit.Quantile(u)
	}
	blown := Blow(simulated, p.BlowPoint, p.BlowFactor, Down, 0)

	sum := 0.0
	for _, v := range blown {
		sum += Amount(v, p)
	}
	return sum / float64(len(blown)), nil
}
