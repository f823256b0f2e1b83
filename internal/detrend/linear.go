package detrend

import (
	"gonum.org/v1/gonum/stat"
)

// Linear fits an ordinary least-squares line through the series and uses
// the fitted values as the trend.
type Linear struct{}

func (Linear) Name() string { return MethodLinear }

func (Linear) Smooth(x, y []float64) ([]float64, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, ErrEmptySeries
	}
	if len(x) == 1 {
		return []float64{y[0]}, nil
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	out := make([]float64, len(x))
	for i := range x {
		out[i] = alpha + beta*x[i]
	}
	return out, nil
}
