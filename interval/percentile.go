package interval

import (
	"sort"

	"bootci/estimator"
	"bootci/stats"
)

// Percentile takes the alpha/2 and 1-alpha/2 empirical quantiles of
// each term's bootstrap distribution as the interval bounds. The point
// estimate is the apparent replicate's value when one is present,
// since that removes resampling noise from the reported center;
// otherwise it is the mean of the replicate estimates.
func Percentile(results []*estimator.ReplicateResult, alpha float64) ([]Interval, error) {
	if err := checkAlpha(alpha); err != nil {
		return nil, err
	}

	order, cols := collect(results)
	out := make([]Interval, 0, len(order))
	for _, term := range order {
		col := cols[term]
		if len(col.estimates) < 2 {
			return nil, &InsufficientReplicatesError{
				Term:   term,
				Method: MethodPercentile,
				Got:    len(col.estimates),
			}
		}

		sorted := append([]float64(nil), col.estimates...)
		sort.Float64s(sorted)

		point := col.apparent.Estimate
		if !col.hasApparent {
			sum := 0.0
			for _, e := range col.estimates {
				sum += e
			}
			point = sum / float64(len(col.estimates))
		}

		out = append(out, Interval{
			Term:     term,
			Lower:    stats.Quantile(sorted, alpha/2),
			Estimate: point,
			Upper:    stats.Quantile(sorted, 1-alpha/2),
			Alpha:    alpha,
			Method:   MethodPercentile,
		})
	}
	return out, nil
}
