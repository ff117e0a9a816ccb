package kernel

import (
	"fmt"
	"math"
)

// Interval is a closed parameter range [Min, Max].
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// UnitInterval is [-1, 1], the default sampling range.
var UnitInterval = Interval{Min: -1, Max: 1}

// Length returns Max - Min. It is negative for reversed intervals.
func (iv Interval) Length() float64 {
	return iv.Max - iv.Min
}

// Lerp maps t in [0, 1] onto the interval.
func (iv Interval) Lerp(t float64) float64 {
	return t*iv.Length() + iv.Min
}

// Contains reports whether x lies between the bounds, in either order.
func (iv Interval) Contains(x float64) bool {
	lo, hi := iv.Min, iv.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return x >= lo && x <= hi
}

// IsFinite reports whether both bounds are finite numbers.
func (iv Interval) IsFinite() bool {
	return !math.IsNaN(iv.Min) && !math.IsInf(iv.Min, 0) &&
		!math.IsNaN(iv.Max) && !math.IsInf(iv.Max, 0)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%g, %g]", iv.Min, iv.Max)
}
