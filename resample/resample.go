// Package resample draws bootstrap replicates and jackknife folds from
// an immutable dataset. All randomness flows through an explicit seed;
// compositions are drawn sequentially before any estimation work
// starts, so the replicate-to-rows mapping never depends on how the
// caller parallelizes estimator evaluation.
package resample

import (
	"errors"
	"math/rand"

	"bootci/dataset"
)

// Replicate is one resampled view of the source dataset. The apparent
// replicate, when requested, is the unsampled identity view and is
// always ordered last.
type Replicate struct {
	ID       int64
	Apparent bool
	Sample   *dataset.Sample
}

type Config struct {
	Seed            int64
	IncludeApparent bool
}

// Resample draws times independent with-replacement samples of d, each
// the same size as d. A fixed seed reproduces the exact compositions.
func Resample(d *dataset.Dataset, times int, cfg Config) ([]Replicate, error) {
	if d == nil {
		return nil, errors.New("resample: nil dataset")
	}
	if times < 1 {
		return nil, errors.New("resample: times must be >= 1")
	}

	n := d.Len()
	rng := rand.New(rand.NewSource(cfg.Seed))

	out := make([]Replicate, 0, times+1)
	for i := 0; i < times; i++ {
		indices := make([]int, n)
		for j := range indices {
			indices[j] = rng.Intn(n)
		}
		out = append(out, Replicate{
			ID:     int64(i),
			Sample: dataset.NewSample(d, indices),
		})
	}

	if cfg.IncludeApparent {
		out = append(out, Replicate{
			ID:       int64(times),
			Apparent: true,
			Sample:   d.Identity(),
		})
	}
	return out, nil
}

// JackknifeFolds returns the leave-one-out views of d; fold i omits
// row i.
func JackknifeFolds(d *dataset.Dataset) []*dataset.Sample {
	n := d.Len()
	folds := make([]*dataset.Sample, n)
	for i := 0; i < n; i++ {
		indices := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				indices = append(indices, j)
			}
		}
		folds[i] = dataset.NewSample(d, indices)
	}
	return folds
}
