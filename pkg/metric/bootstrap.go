package metric

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// BootstrapInterval is a confidence interval estimated by resampling
type BootstrapInterval struct {
	Lower  float64
	Upper  float64
	Mean   float64 // mean of the resampled estimates
	StdDev float64 // standard error of the estimate
}

// Bootstrap resamples values with replacement rounds times, applies measure
// to every resample and returns the central confidence interval (e.g. 0.95)
// of the estimates.
func Bootstrap(values []float64, measure func([]float64) float64, rounds int, confidence float64) BootstrapInterval {
	if len(values) == 0 || rounds <= 0 {
		return BootstrapInterval{}
	}

	estimates := lo.Times(rounds, func(int) float64 {
		return measure(resample(values))
	})
	slices.Sort(estimates)

	alpha := (1 - confidence) / 2
	interval := BootstrapInterval{
		Lower: stat.Quantile(alpha, stat.LinInterp, estimates, nil),
		Upper: stat.Quantile(1-alpha, stat.LinInterp, estimates, nil),
	}
	interval.Mean, interval.StdDev = stat.MeanStdDev(estimates, nil)

	return interval
}

func resample(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = lo.Sample(values)
	}
	return out
}
