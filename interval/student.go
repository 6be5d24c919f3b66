package interval

import (
	"math"
	"sort"

	"bootci/estimator"
	"bootci/stats"
)

// StudentT studentizes each replicate against the apparent estimate,
// t_i = (est_i - apparent) / se_i, and maps the empirical t quantiles
// back through the apparent standard error:
//
//	[apparent - t_hi*se_app, apparent - t_lo*se_app]
//
// Every replicate, including the apparent one, must carry a standard
// error.
func StudentT(results []*estimator.ReplicateResult, alpha float64) ([]Interval, error) {
	if err := checkAlpha(alpha); err != nil {
		return nil, err
	}

	order, cols := collect(results)
	out := make([]Interval, 0, len(order))
	for _, term := range order {
		col := cols[term]
		if !col.hasApparent {
			return nil, &MissingApparentReplicateError{Method: MethodStudentT}
		}
		if !col.apparent.HasStdError() {
			return nil, &MissingStandardErrorError{Term: term, ReplicateID: col.apparentID}
		}
		if len(col.estimates) < 2 {
			return nil, &InsufficientReplicatesError{
				Term:   term,
				Method: MethodStudentT,
				Got:    len(col.estimates),
			}
		}

		apparent := col.apparent.Estimate
		apparentSE := col.apparent.StdError

		ts := make([]float64, len(col.estimates))
		for i, est := range col.estimates {
			se := col.stdErrs[i]
			if math.IsNaN(se) {
				return nil, &MissingStandardErrorError{Term: term, ReplicateID: col.ids[i]}
			}
			ts[i] = (est - apparent) / se
		}
		sort.Float64s(ts)

		tLo := stats.Quantile(ts, alpha/2)
		tHi := stats.Quantile(ts, 1-alpha/2)

		out = append(out, Interval{
			Term:     term,
			Lower:    apparent - tHi*apparentSE,
			Estimate: apparent,
			Upper:    apparent - tLo*apparentSE,
			Alpha:    alpha,
			Method:   MethodStudentT,
		})
	}
	return out, nil
}
