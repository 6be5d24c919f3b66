package stats

import "math"

// Welford accumulates mean and variance in a single pass.
type Welford struct {
	count uint64
	mean  float64
	m2    float64
}

func NewWelford() *Welford {
	return &Welford{}
}

func (w *Welford) Update(value float64) {
	w.count++
	delta := value - w.mean
	w.mean += delta / float64(w.count)
	delta2 := value - w.mean
	w.m2 += delta * delta2
}

func (w *Welford) Count() uint64 {
	return w.count
}

func (w *Welford) Mean() float64 {
	return w.mean
}

func (w *Welford) Variance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count)
}

func (w *Welford) SampleVariance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count-1)
}

func (w *Welford) SD() float64 {
	return math.Sqrt(w.SampleVariance())
}

// StdError is the standard error of the mean, SD / sqrt(n).
func (w *Welford) StdError() float64 {
	if w.count == 0 {
		return 0
	}
	return w.SD() / math.Sqrt(float64(w.count))
}
