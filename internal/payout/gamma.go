package payout

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// GammaFit holds a method-of-moments gamma fit of the detrended series.
type GammaFit struct {
	Mean  float64
	Std   float64 // sample standard deviation
	Shape float64 // k
	Scale float64 // theta
}

// FitGamma estimates shape and scale from the first two moments:
// shape = (m/s)^2, scale = s^2/m. Degenerate inputs fall back to 1.
func FitGamma(values []float64) GammaFit {
	fit := GammaFit{Shape: 1, Scale: 1}
	if len(values) == 0 {
		return fit
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	fit.Mean = m

	if len(values) > 1 {
		ss := 0.0
		for _, v := range values {
			d := v - m
			ss += d * d
		}
		fit.Std = math.Sqrt(ss / float64(len(values)-1))
	}

	if fit.Std > 0 {
		fit.Shape = (m / fit.Std) * (m / fit.Std)
	}
	if m > 0 {
		fit.Scale = fit.Std * fit.Std / m
	}
	return fit
}

// Quantile is the inverse CDF of the fitted gamma at probability p.
func (g GammaFit) Quantile(p float64) float64 {
	dist := distuv.Gamma{Alpha: g.Shape, Beta: 1.0 / g.Scale}
	return dist.Quantile(p)
}
