// Package detrend removes the long-term trend from an annual energy series.
package detrend

import (
	"errors"
	"fmt"

	"solar-risk/internal/model"
)

var (
	// ErrInvalidBandwidth is returned for a kernel bandwidth <= 0.
	ErrInvalidBandwidth = errors.New("bandwidth must be > 0")
	// ErrUnknownMethod is returned for an unrecognized method name.
	ErrUnknownMethod = errors.New("unknown detrending method")
	// ErrEmptySeries is returned when there is nothing to smooth.
	ErrEmptySeries = errors.New("empty series")
)

// Smoother produces one smoothed value per period given the full series.
type Smoother interface {
	Name() string
	Smooth(x, y []float64) ([]float64, error)
}

// Methods lists the recognized method names, in menu order.
func Methods() []string { return []string{MethodLinear, MethodKernel, MethodNone} }

const (
	MethodLinear = "linear"
	MethodKernel = "kernel"
	MethodNone   = "none"
)

// New builds the smoother for a method name. Only the kernel method uses
// the bandwidth.
func New(method string, bandwidth float64) (Smoother, error) {
	switch method {
	case MethodKernel:
		return NewKernel(bandwidth)
	case MethodLinear:
		return Linear{}, nil
	case MethodNone:
		return noop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// Detrend smooths the rescaled annual series and anchors the residuals to
// the trend value at the last period, so the detrended series reads as
// "recent-level production plus historical deviation".
func Detrend(annual []model.AnnualRow, method string, bandwidth float64) ([]model.TrendRow, error) {
	s, err := New(method, bandwidth)
	if err != nil {
		return nil, err
	}
	return Apply(annual, s)
}

// Apply runs a prepared smoother over the annual series.
func Apply(annual []model.AnnualRow, s Smoother) ([]model.TrendRow, error) {
	if len(annual) == 0 {
		return nil, ErrEmptySeries
	}

	x := make([]float64, len(annual))
	y := make([]float64, len(annual))
	for i, row := range annual {
		x[i] = float64(row.Year)
		y[i] = row.RescaledMWh
	}

	trend, err := s.Smooth(x, y)
	if err != nil {
		return nil, err
	}

	anchor := trend[len(trend)-1]
	out := make([]model.TrendRow, len(annual))
	for i, row := range annual {
		residual := y[i] - trend[i]
		out[i] = model.TrendRow{
			Year:      row.Year,
			Raw:       y[i],
			Trend:     trend[i],
			Residual:  residual,
			Detrended: anchor + residual,
		}
	}
	return out, nil
}

// noop fits a flat trend at the series mean. The anchored detrended series
// then equals the raw series: mean + (y - mean) = y.
type noop struct{}

func (noop) Name() string { return MethodNone }

func (noop) Smooth(_, y []float64) ([]float64, error) {
	if len(y) == 0 {
		return nil, ErrEmptySeries
	}
	sum := 0.0
	for _, v := range y {
		sum += v
	}
	mean := sum / float64(len(y))
	out := make([]float64, len(y))
	for i := range out {
		out[i] = mean
	}
	return out, nil
}
