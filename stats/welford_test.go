package stats

import (
	"math"
	"testing"

	"bootci/utils"
)

func TestWelford(t *testing.T) {
	w := NewWelford()

	utils.AssertEqual(t, w.Mean(), 0.0)
	utils.AssertEqual(t, w.Variance(), 0.0)
	utils.AssertEqual(t, w.SampleVariance(), 0.0)
	utils.AssertEqual(t, w.StdError(), 0.0)

	for i := 1; i < 100; i++ {
		w.Update(float64(i))
	}

	utils.AssertEqual(t, w.Count(), uint64(99))
	utils.AssertEqual(t, w.Mean(), 50.0)
	utils.AssertClose(t, w.Variance(), 816.666667, 1e-4)
	utils.AssertClose(t, w.SampleVariance(), 825.0000, 1e-4)
	utils.AssertClose(t, w.SD(), math.Sqrt(825.0), 1e-9)
	utils.AssertClose(t, w.StdError(), math.Sqrt(825.0/99.0), 1e-9)
}
