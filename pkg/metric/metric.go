package metric

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of the values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Smooth returns the exponential moving average of values over period.
// Values before the first full period are NaN, as talib reports them.
func Smooth(values []float64, period int) []float64 {
	if period < 2 || len(values) < period {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	ema := talib.Ema(values, period)
	for i := 0; i < period-1 && i < len(ema); i++ {
		ema[i] = math.NaN()
	}
	return ema
}

// Range returns the minimum and maximum of values, zero for an empty slice
func Range(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}
