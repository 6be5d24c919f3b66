package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormalCDF is the standard normal CDF.
func NormalCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// NormalQuantile is the inverse standard normal CDF. It returns -Inf
// at 0 and +Inf at 1.
func NormalQuantile(p float64) float64 {
	return stdNormal.Quantile(p)
}

// Quantile returns the p-th empirical quantile of an ascending-sorted
// slice, linearly interpolating between order statistics (the R-7
// rule). Probabilities outside [0, 1] clamp to the extreme order
// statistics. An empty slice yields NaN.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
