package storage

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bootci/estimator"
)

func sampleResult(id int64, apparent bool) *estimator.ReplicateResult {
	return &estimator.ReplicateResult{
		ReplicateID: id,
		Apparent:    apparent,
		Terms: []estimator.TermEstimate{
			{Term: "mean", Estimate: 10.25, StdError: 0.5},
			{Term: "slope", Estimate: -3, StdError: math.NaN()},
		},
	}
}

func TestResultStore_RoundTrip(t *testing.T) {
	for _, cached := range []bool{false, true} {
		store := NewResultStore(NewInMemoryBackend(), cached)
		runID := uuid.New()

		want := sampleResult(12, true)
		assert.NoError(t, store.PutResult(runID, want))

		got, err := store.GetResult(runID, 12)
		assert.NoError(t, err)
		if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
			t.Fatalf("cached=%v round trip changed the result:\n%s", cached, diff)
		}

		assert.NoError(t, store.DeleteResult(runID, 12))
		_, err = store.backend.Get(runID, 12)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, store.Close())
	}
}

func TestResultStore_ListResultsOrdered(t *testing.T) {
	store := NewResultStore(NewInMemoryBackend(), false)
	defer store.Close()
	runID := uuid.New()

	for _, id := range []int64{5, 1, 3, 0, 4, 2} {
		assert.NoError(t, store.PutResult(runID, sampleResult(id, false)))
	}

	results, err := store.ListResults(runID)
	assert.NoError(t, err)
	assert.Len(t, results, 6)
	for i, res := range results {
		assert.Equal(t, int64(i), res.ReplicateID)
	}
}

func TestResultStore_Meta(t *testing.T) {
	store := NewResultStore(NewInMemoryBackend(), false)
	defer store.Close()
	runID := uuid.New()

	want := &RunMeta{
		Seed:            42,
		Times:           2000,
		Alpha:           0.05,
		IncludeApparent: true,
		Rows:            20,
		Label:           "weights experiment",
	}
	assert.NoError(t, store.PutMeta(runID, want))

	got, err := store.GetMeta(runID)
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = store.GetMeta(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResultStore_Badger(t *testing.T) {
	store := NewResultStore(NewBadgerBackend(TestBadgerDB()), true)
	defer store.Close()
	runID := uuid.New()

	want := sampleResult(0, false)
	assert.NoError(t, store.PutResult(runID, want))

	got, err := store.GetResult(runID, 0)
	assert.NoError(t, err)
	if diff := cmp.Diff(want, got, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("badger round trip changed the result:\n%s", diff)
	}
}
