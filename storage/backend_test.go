package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetKey(t *testing.T) {
	runID := uuid.New()
	key := GetKey(kindResult, runID, 1<<40+3)

	assert.Equal(t, runID, GetRunIDFromKey(key))
	assert.Equal(t, kindResult, GetKindFromKey(key))
	assert.Equal(t, int64(1<<40+3), GetReplicateIDFromKey(key))
}

func testBackendRoundTrip(t *testing.T, backend Backend) {
	runID := uuid.New()
	otherRun := uuid.New()

	assert.NoError(t, backend.Put(runID, 0, []byte{1}))
	assert.NoError(t, backend.Put(runID, 1, []byte{2}))
	assert.NoError(t, backend.Put(otherRun, 0, []byte{9}))
	assert.NoError(t, backend.PutMeta(runID, []byte{7}))

	buf, err := backend.Get(runID, 1)
	assert.NoError(t, err)
	assert.Equal(t, []byte{2}, buf)

	buf, err = backend.GetMeta(runID)
	assert.NoError(t, err)
	assert.Equal(t, []byte{7}, buf)

	_, err = backend.Get(runID, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.GetMeta(otherRun)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, backend.Delete(runID, 1))
	_, err = backend.Get(runID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testBackendIterateRun(t *testing.T, backend Backend) {
	runID := uuid.New()
	otherRun := uuid.New()

	assert.NoError(t, backend.Put(runID, 3, []byte{3}))
	assert.NoError(t, backend.Put(runID, 4, []byte{4}))
	assert.NoError(t, backend.Put(otherRun, 5, []byte{5}))
	// Metadata must not show up in the result iteration.
	assert.NoError(t, backend.PutMeta(runID, []byte{0}))

	seen := map[int64]byte{}
	err := backend.IterateRun(runID, func(replicateID int64, buf []byte) error {
		seen[replicateID] = buf[0]
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, map[int64]byte{3: 3, 4: 4}, seen)

	seen = map[int64]byte{}
	assert.NoError(t, backend.IterateRun(uuid.New(), func(replicateID int64, buf []byte) error {
		seen[replicateID] = buf[0]
		return nil
	}))
	assert.Empty(t, seen)
}

func TestInMemoryBackend(t *testing.T) {
	backend := NewInMemoryBackend()
	defer backend.Close()
	testBackendRoundTrip(t, backend)
	testBackendIterateRun(t, backend)
}

func TestBadgerBackend(t *testing.T) {
	backend := NewBadgerBackend(TestBadgerDB())
	defer backend.Close()
	testBackendRoundTrip(t, backend)
	testBackendIterateRun(t, backend)
}
