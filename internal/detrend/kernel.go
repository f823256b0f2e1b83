package detrend

import (
	"fmt"
	"math"
)

// Kernel smooths with a Gaussian RBF: the trend at period i is the weighted
// average of all observed values, weight exp(-(x_i-x_j)^2 / (2*bw^2)).
// Larger bandwidths yield a flatter trend; smaller ones track the noise.
// Edge periods use only the observations that exist; no padding.
type Kernel struct {
	Bandwidth float64
}

func NewKernel(bandwidth float64) (Kernel, error) {
	if bandwidth <= 0 {
		return Kernel{}, fmt.Errorf("%w: got %g", ErrInvalidBandwidth, bandwidth)
	}
	return Kernel{Bandwidth: bandwidth}, nil
}

func (k Kernel) Name() string { return MethodKernel }

func (k Kernel) Smooth(x, y []float64) ([]float64, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, ErrEmptySeries
	}

	gamma := 1.0 / (2.0 * k.Bandwidth * k.Bandwidth)
	out := make([]float64, len(x))
	for i := range x {
		var wsum, acc float64
		for j := range x {
			d := x[i] - x[j]
			w := math.Exp(-gamma * d * d)
			wsum += w
			acc += w * y[j]
		}
		// wsum >= 1 always: the point's own weight is exp(0).
		out[i] = acc / wsum
	}
	return out, nil
}
