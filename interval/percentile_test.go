package interval

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"bootci/estimator"
)

// singleTermResults builds one result per estimate for a single term,
// optionally followed by an apparent result.
func singleTermResults(term string, estimates []float64, stdErrs []float64, apparent *estimator.TermEstimate) []*estimator.ReplicateResult {
	out := make([]*estimator.ReplicateResult, 0, len(estimates)+1)
	for i, est := range estimates {
		se := math.NaN()
		if stdErrs != nil {
			se = stdErrs[i]
		}
		out = append(out, &estimator.ReplicateResult{
			ReplicateID: int64(i),
			Terms:       []estimator.TermEstimate{{Term: term, Estimate: est, StdError: se}},
		})
	}
	if apparent != nil {
		out = append(out, &estimator.ReplicateResult{
			ReplicateID: int64(len(estimates)),
			Apparent:    true,
			Terms:       []estimator.TermEstimate{*apparent},
		})
	}
	return out
}

func sequence(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestPercentile_KnownQuantiles(t *testing.T) {
	apparent := &estimator.TermEstimate{Term: "mean", Estimate: 50.5, StdError: math.NaN()}
	results := singleTermResults("mean", sequence(100), nil, apparent)

	table, err := Percentile(results, 0.05)
	assert.NoError(t, err)
	assert.Len(t, table, 1)

	iv := table[0]
	assert.Equal(t, "mean", iv.Term)
	// R-7 on 1..100: q(.025) = 1 + .025*99, q(.975) = 1 + .975*99
	assert.InDelta(t, 3.475, iv.Lower, 1e-12)
	assert.InDelta(t, 97.525, iv.Upper, 1e-12)
	assert.Equal(t, 50.5, iv.Estimate)
	assert.Equal(t, 0.05, iv.Alpha)
	assert.Equal(t, MethodPercentile, iv.Method)
}

func TestPercentile_BoundsOrdered(t *testing.T) {
	estimates := []float64{4.2, -1, 0, 17, 3, 3, 8.5, -2.3}
	results := singleTermResults("b", estimates, nil, nil)

	for _, alpha := range []float64{0.01, 0.05, 0.2, 0.5} {
		table, err := Percentile(results, alpha)
		assert.NoError(t, err)
		assert.LessOrEqual(t, table[0].Lower, table[0].Upper, "alpha=%v", alpha)
	}
}

func TestPercentile_PointEstimateWithoutApparent(t *testing.T) {
	results := singleTermResults("m", []float64{1, 2, 3, 4}, nil, nil)

	table, err := Percentile(results, 0.1)
	assert.NoError(t, err)
	assert.Equal(t, 2.5, table[0].Estimate)
}

func TestPercentile_InsufficientReplicates(t *testing.T) {
	apparent := &estimator.TermEstimate{Term: "m", Estimate: 1, StdError: math.NaN()}
	results := singleTermResults("m", []float64{1}, nil, apparent)

	_, err := Percentile(results, 0.05)
	var insufficient *InsufficientReplicatesError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "m", insufficient.Term)
	assert.Equal(t, 1, insufficient.Got)
}

func TestPercentile_BadAlpha(t *testing.T) {
	results := singleTermResults("m", []float64{1, 2}, nil, nil)

	for _, alpha := range []float64{0, 1, -0.1, 2} {
		_, err := Percentile(results, alpha)
		assert.Error(t, err, "alpha=%v", alpha)
	}
}

func TestPercentile_MultipleTerms(t *testing.T) {
	results := make([]*estimator.ReplicateResult, 10)
	for i := range results {
		results[i] = &estimator.ReplicateResult{
			ReplicateID: int64(i),
			Terms: []estimator.TermEstimate{
				{Term: "a", Estimate: float64(i), StdError: math.NaN()},
				{Term: "b", Estimate: float64(10 - i), StdError: math.NaN()},
			},
		}
	}

	table, err := Percentile(results, 0.2)
	assert.NoError(t, err)
	assert.Len(t, table, 2)
	assert.Equal(t, "a", table[0].Term)
	assert.Equal(t, "b", table[1].Term)
}
