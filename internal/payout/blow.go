package payout

import "math"

// Direction selects which side of the blow point the transform acts on.
type Direction string

const (
	// Down stretches values below the point away from it.
	Down Direction = "D"
	// Up stretches values above the point.
	Up Direction = "U"
)

// Blow applies the exponential tail transform used on simulated settlement
// values: on the affected side, the distance from the point is scaled by
// exp(-factor/100). A negative factor widens the tail, a positive one
// compresses it. Values on the other side pass through; shift is added to
// everything at the end.
func Blow(values []float64, point, factor float64, dir Direction, shift float64) []float64 {
	scale := math.Exp(-factor / 100.0)
	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case dir == Down && v < point:
			out[i] = point - (point-v)*scale
		case dir == Up && v > point:
			out[i] = point + (v-point)*scale
		default:
			out[i] = v
		}
		out[i] += shift
	}
	return out
}
