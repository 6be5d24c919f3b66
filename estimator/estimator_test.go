package estimator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"bootci/dataset"
	"bootci/resample"
)

func testReplicate(t *testing.T) resample.Replicate {
	t.Helper()
	d, err := dataset.FromColumn("x", []float64{2, 4, 6, 8})
	assert.NoError(t, err)
	return resample.Replicate{ID: 7, Sample: d.Identity()}
}

func TestApply_Mean(t *testing.T) {
	res, err := Apply(context.Background(), Mean("x"), testReplicate(t))
	assert.NoError(t, err)

	assert.Equal(t, int64(7), res.ReplicateID)
	assert.False(t, res.Apparent)

	te, ok := res.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 5.0, te.Estimate)
	// sd of {2,4,6,8} is sqrt(20/3); se = sd/2
	assert.InDelta(t, math.Sqrt(20.0/3.0)/2.0, te.StdError, 1e-12)
	assert.True(t, te.HasStdError())
}

func TestApply_WrapsFailure(t *testing.T) {
	boom := errors.New("did not converge")
	fail := func(context.Context, *dataset.Sample) ([]TermEstimate, error) {
		return nil, boom
	}

	_, err := Apply(context.Background(), fail, testReplicate(t))
	assert.Error(t, err)

	var estErr *EstimatorError
	assert.True(t, errors.As(err, &estErr))
	assert.Equal(t, int64(7), estErr.ReplicateID)
	assert.False(t, estErr.Jackknife)
	assert.True(t, errors.Is(err, boom))
}

func TestApply_RejectsMalformedOutput(t *testing.T) {
	cases := map[string]Func{
		"no terms": func(context.Context, *dataset.Sample) ([]TermEstimate, error) {
			return nil, nil
		},
		"empty name": func(context.Context, *dataset.Sample) ([]TermEstimate, error) {
			return []TermEstimate{{Term: "", Estimate: 1}}, nil
		},
		"nan estimate": func(context.Context, *dataset.Sample) ([]TermEstimate, error) {
			return []TermEstimate{{Term: "x", Estimate: math.NaN()}}, nil
		},
	}
	for name, fn := range cases {
		_, err := Apply(context.Background(), fn, testReplicate(t))
		var estErr *EstimatorError
		assert.True(t, errors.As(err, &estErr), name)
	}
}

func TestMean_UnknownField(t *testing.T) {
	_, err := Apply(context.Background(), Mean("nope"), testReplicate(t))
	assert.Error(t, err)
}

func TestQuantile_Builtin(t *testing.T) {
	res, err := Apply(context.Background(), Quantile("x", 0.5), testReplicate(t))
	assert.NoError(t, err)

	te, ok := res.Lookup("x@q0.5")
	assert.True(t, ok)
	assert.Equal(t, 5.0, te.Estimate)
	assert.False(t, te.HasStdError())
}
