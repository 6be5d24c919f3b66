package estimator

import (
	"context"
	"fmt"
	"math"
	"sort"

	"bootci/dataset"
	"bootci/stats"
)

// Mean estimates the sample mean of one field, with its standard
// error, under the term name of the field.
func Mean(field string) Func {
	return func(_ context.Context, s *dataset.Sample) ([]TermEstimate, error) {
		col, ok := s.Column(field)
		if !ok {
			return nil, fmt.Errorf("field %q not in sample", field)
		}
		w := stats.NewWelford()
		for _, v := range col {
			w.Update(v)
		}
		return []TermEstimate{{
			Term:     field,
			Estimate: w.Mean(),
			StdError: w.StdError(),
		}}, nil
	}
}

// Quantile estimates the p-th quantile of one field. No standard error
// is reported, so the result feeds percentile and BCa intervals only.
func Quantile(field string, p float64) Func {
	term := fmt.Sprintf("%s@q%g", field, p)
	return func(_ context.Context, s *dataset.Sample) ([]TermEstimate, error) {
		col, ok := s.Column(field)
		if !ok {
			return nil, fmt.Errorf("field %q not in sample", field)
		}
		sort.Float64s(col)
		return []TermEstimate{{
			Term:     term,
			Estimate: stats.Quantile(col, p),
			StdError: math.NaN(),
		}}, nil
	}
}
