// Package interval turns collected per-replicate estimates into
// confidence intervals. Three methods are provided: percentile,
// studentized-t, and BCa. Each operates independently per term and
// records its method name in the output, since bounds are not
// comparable across methods.
package interval

import (
	"fmt"

	"bootci/estimator"
)

const (
	MethodPercentile = "percentile"
	MethodStudentT   = "student-t"
	MethodBCa        = "bca"
)

// Interval is one row of the output table.
type Interval struct {
	Term     string
	Lower    float64
	Estimate float64
	Upper    float64
	Alpha    float64
	Method   string
}

// termColumn gathers one term's estimates across replicates, keeping
// the apparent replicate out of the bootstrap distribution.
type termColumn struct {
	ids         []int64
	estimates   []float64
	stdErrs     []float64
	hasApparent bool
	apparent    estimator.TermEstimate
	apparentID  int64
}

// collect splits results per term, preserving first-seen term order
// and per-term replicate order.
func collect(results []*estimator.ReplicateResult) ([]string, map[string]*termColumn) {
	var order []string
	cols := make(map[string]*termColumn)

	for _, res := range results {
		if res == nil {
			continue
		}
		for _, te := range res.Terms {
			col, ok := cols[te.Term]
			if !ok {
				col = &termColumn{}
				cols[te.Term] = col
				order = append(order, te.Term)
			}
			if res.Apparent {
				col.hasApparent = true
				col.apparent = te
				col.apparentID = res.ReplicateID
				continue
			}
			col.ids = append(col.ids, res.ReplicateID)
			col.estimates = append(col.estimates, te.Estimate)
			col.stdErrs = append(col.stdErrs, te.StdError)
		}
	}
	return order, cols
}

func checkAlpha(alpha float64) error {
	if alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("interval: alpha %v outside (0, 1)", alpha)
	}
	return nil
}
