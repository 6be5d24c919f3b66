package interval

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"bootci/dataset"
	"bootci/estimator"
	"bootci/resample"
	"bootci/stats"
)

type BCaOptions struct {
	// Workers caps concurrent jackknife fits. Zero or negative means
	// GOMAXPROCS.
	Workers int
}

// BCa computes bias-corrected and accelerated intervals. The bias
// correction z0 comes from the share of bootstrap estimates strictly
// below the apparent estimate; the acceleration a comes from the
// skewness of the leave-one-out jackknife estimates, which re-invokes
// fn once per original row. Folds are evaluated concurrently, bounded
// by opts.Workers; fold composition is index-determined so parallelism
// cannot change any estimate.
//
// When results carry no apparent replicate, fn is run on the full
// dataset to anchor z0; a failure of that fit is fatal.
func BCa(
	ctx context.Context,
	d *dataset.Dataset,
	results []*estimator.ReplicateResult,
	fn estimator.Func,
	alpha float64,
	opts BCaOptions,
) ([]Interval, error) {
	if err := checkAlpha(alpha); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("interval: bca requires the original dataset")
	}
	if d.Len() < 2 {
		return nil, &DegenerateJackknifeError{}
	}

	order, cols := collect(results)
	if len(order) == 0 {
		return nil, &InsufficientReplicatesError{Method: MethodBCa, Got: 0}
	}

	anchors, err := anchorEstimates(ctx, d, fn, order, cols)
	if err != nil {
		return nil, err
	}

	jack, err := jackknifeEstimates(ctx, d, fn, order, opts.Workers)
	if err != nil {
		return nil, err
	}

	zLo := stats.NormalQuantile(alpha / 2)
	zHi := stats.NormalQuantile(1 - alpha/2)

	out := make([]Interval, 0, len(order))
	for _, term := range order {
		col := cols[term]
		if len(col.estimates) < 2 {
			return nil, &InsufficientReplicatesError{
				Term:   term,
				Method: MethodBCa,
				Got:    len(col.estimates),
			}
		}

		anchor := anchors[term]

		below := 0
		for _, est := range col.estimates {
			if est < anchor {
				below++
			}
		}
		z0 := stats.NormalQuantile(float64(below) / float64(len(col.estimates)))

		a, err := acceleration(term, jack[term])
		if err != nil {
			return nil, err
		}

		pLo := adjustedPosition(z0, a, zLo)
		if !inUnitInterval(pLo) {
			return nil, &ExtremeQuantileError{Term: term, Position: pLo}
		}
		pHi := adjustedPosition(z0, a, zHi)
		if !inUnitInterval(pHi) {
			return nil, &ExtremeQuantileError{Term: term, Position: pHi}
		}

		sorted := append([]float64(nil), col.estimates...)
		sort.Float64s(sorted)

		out = append(out, Interval{
			Term:     term,
			Lower:    stats.Quantile(sorted, pLo),
			Estimate: anchor,
			Upper:    stats.Quantile(sorted, pHi),
			Alpha:    alpha,
			Method:   MethodBCa,
		})
	}
	return out, nil
}

// anchorEstimates returns the original-data estimate per term, taken
// from the apparent replicate when present, otherwise from a fresh fit
// of the full dataset.
func anchorEstimates(
	ctx context.Context,
	d *dataset.Dataset,
	fn estimator.Func,
	order []string,
	cols map[string]*termColumn,
) (map[string]float64, error) {
	anchors := make(map[string]float64, len(order))
	missing := false
	for _, term := range order {
		if col := cols[term]; col.hasApparent {
			anchors[term] = col.apparent.Estimate
		} else {
			missing = true
		}
	}
	if !missing {
		return anchors, nil
	}

	terms, err := fn(ctx, d.Identity())
	if err != nil {
		return nil, &estimator.EstimatorError{ReplicateID: -1, Fold: -1, Err: err}
	}
	for _, te := range terms {
		anchors[te.Term] = te.Estimate
	}
	for _, term := range order {
		if _, ok := anchors[term]; !ok {
			return nil, &estimator.EstimatorError{
				ReplicateID: -1,
				Fold:        -1,
				Err:         fmt.Errorf("original-data fit returned no term %q", term),
			}
		}
	}
	return anchors, nil
}

// jackknifeEstimates fits every leave-one-out fold and gathers the
// estimates per term, indexed by fold.
func jackknifeEstimates(
	ctx context.Context,
	d *dataset.Dataset,
	fn estimator.Func,
	order []string,
	workers int,
) (map[string][]float64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	folds := resample.JackknifeFolds(d)
	foldTerms := make([][]estimator.TermEstimate, len(folds))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, fold := range folds {
		i, fold := i, fold
		eg.Go(func() error {
			terms, err := fn(ctx, fold)
			if err != nil {
				return &estimator.EstimatorError{
					ReplicateID: -1,
					Fold:        i,
					Jackknife:   true,
					Err:         err,
				}
			}
			foldTerms[i] = terms
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	jack := make(map[string][]float64, len(order))
	for _, term := range order {
		jack[term] = make([]float64, len(folds))
	}
	for i, terms := range foldTerms {
		seen := make(map[string]bool, len(terms))
		for _, te := range terms {
			if _, want := jack[te.Term]; want {
				jack[te.Term][i] = te.Estimate
				seen[te.Term] = true
			}
		}
		for _, term := range order {
			if !seen[term] {
				return nil, &estimator.EstimatorError{
					ReplicateID: -1,
					Fold:        i,
					Jackknife:   true,
					Err:         fmt.Errorf("fold returned no term %q", term),
				}
			}
		}
	}
	return jack, nil
}

// acceleration derives a from the jackknife skewness:
//
//	a = sum((mean - x_i)^3) / (6 * sum((mean - x_i)^2)^1.5)
func acceleration(term string, jack []float64) (float64, error) {
	mean := 0.0
	for _, x := range jack {
		mean += x
	}
	mean /= float64(len(jack))

	num, den := 0.0, 0.0
	for _, x := range jack {
		diff := mean - x
		num += diff * diff * diff
		den += diff * diff
	}
	if den == 0 {
		return 0, &DegenerateJackknifeError{Term: term}
	}
	return num / (6 * math.Pow(den, 1.5)), nil
}

// adjustedPosition maps a nominal normal quantile z through the BCa
// correction. With z0 = 0 and a = 0 this is the identity on the
// nominal coverage probability, reducing BCa to the percentile method.
func adjustedPosition(z0, a, z float64) float64 {
	return stats.NormalCDF(z0 + (z0+z)/(1-a*(z0+z)))
}

func inUnitInterval(p float64) bool {
	return p > 0 && p < 1 && !math.IsNaN(p)
}
