// Package estimator defines the contract between the bootstrap engine
// and caller-supplied model-fitting code. An estimator is any function
// that maps a sample to a table of named term estimates; everything
// else the caller needs rides in a closure.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"bootci/dataset"
	"bootci/resample"
)

// TermEstimate is one row of an estimator's output: a named scalar with
// an optional standard error. StdError is NaN when the estimator does
// not report one.
type TermEstimate struct {
	Term     string
	Estimate float64
	StdError float64
}

func (te TermEstimate) HasStdError() bool {
	return !math.IsNaN(te.StdError)
}

// ReplicateResult is the estimator output for one replicate.
type ReplicateResult struct {
	ReplicateID int64
	Apparent    bool
	Terms       []TermEstimate
}

func (r *ReplicateResult) Lookup(term string) (TermEstimate, bool) {
	for _, te := range r.Terms {
		if te.Term == term {
			return te, true
		}
	}
	return TermEstimate{}, false
}

// Func fits a model (or computes any statistic) on one sample. It must
// return at least one term, each with a finite estimate.
type Func func(ctx context.Context, s *dataset.Sample) ([]TermEstimate, error)

// EstimatorError attributes a failed fit to the bootstrap replicate or
// jackknife fold that triggered it.
type EstimatorError struct {
	ReplicateID int64 // -1 for jackknife folds
	Fold        int   // -1 for bootstrap replicates
	Jackknife   bool
	Err         error
}

func (e *EstimatorError) Error() string {
	if e.Jackknife {
		return fmt.Sprintf("estimator failed on jackknife fold %d: %v", e.Fold, e.Err)
	}
	if e.ReplicateID < 0 {
		return fmt.Sprintf("estimator failed on the original data: %v", e.Err)
	}
	return fmt.Sprintf("estimator failed on replicate %d: %v", e.ReplicateID, e.Err)
}

func (e *EstimatorError) Unwrap() error {
	return e.Err
}

// Apply runs fn on one replicate and normalizes the output. Any
// failure, including a malformed output table, is wrapped in an
// EstimatorError naming the replicate.
func Apply(ctx context.Context, fn Func, rep resample.Replicate) (*ReplicateResult, error) {
	fail := func(err error) (*ReplicateResult, error) {
		return nil, &EstimatorError{ReplicateID: rep.ID, Fold: -1, Err: err}
	}

	terms, err := fn(ctx, rep.Sample)
	if err != nil {
		return fail(err)
	}
	if len(terms) == 0 {
		return fail(errors.New("estimator returned no terms"))
	}

	out := make([]TermEstimate, len(terms))
	for i, te := range terms {
		if te.Term == "" {
			return fail(fmt.Errorf("term %d has an empty name", i))
		}
		if math.IsNaN(te.Estimate) || math.IsInf(te.Estimate, 0) {
			return fail(fmt.Errorf("term %q has non-finite estimate %v", te.Term, te.Estimate))
		}
		out[i] = te
	}

	return &ReplicateResult{
		ReplicateID: rep.ID,
		Apparent:    rep.Apparent,
		Terms:       out,
	}, nil
}
