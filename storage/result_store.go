package storage

import (
	"sort"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"

	"bootci/estimator"
)

// ResultStore fronts a Backend with a ristretto read cache so interval
// recomputation on a loaded run does not round-trip every replicate
// through the codec.
type ResultStore struct {
	backend      Backend
	cacheEnabled bool
	resultCache  *ristretto.Cache
}

func NewResultStore(backend Backend, cacheEnabled bool) *ResultStore {
	resultCache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})

	return &ResultStore{
		backend:      backend,
		cacheEnabled: cacheEnabled,
		resultCache:  resultCache,
	}
}

func (store *ResultStore) PutResult(runID uuid.UUID, result *estimator.ReplicateResult) error {
	if store.cacheEnabled {
		store.resultCache.Set(GetKey(kindResult, runID, result.ReplicateID), result, 1)
	}
	buf, err := ResultToBytes(result)
	if err != nil {
		return err
	}
	return store.backend.Put(runID, result.ReplicateID, buf)
}

func (store *ResultStore) GetResult(runID uuid.UUID, replicateID int64) (*estimator.ReplicateResult, error) {
	if store.cacheEnabled {
		cached, found := store.resultCache.Get(GetKey(kindResult, runID, replicateID))
		if found {
			return cached.(*estimator.ReplicateResult), nil
		}
	}
	buf, err := store.backend.Get(runID, replicateID)
	if err != nil {
		return nil, err
	}
	result, err := BytesToResult(buf)
	if err != nil {
		return nil, err
	}
	if store.cacheEnabled {
		store.resultCache.Set(GetKey(kindResult, runID, replicateID), result, 1)
	}
	return result, nil
}

func (store *ResultStore) DeleteResult(runID uuid.UUID, replicateID int64) error {
	if store.cacheEnabled {
		store.resultCache.Del(GetKey(kindResult, runID, replicateID))
	}
	return store.backend.Delete(runID, replicateID)
}

func (store *ResultStore) PutMeta(runID uuid.UUID, meta *RunMeta) error {
	buf, err := MetaToBytes(meta)
	if err != nil {
		return err
	}
	return store.backend.PutMeta(runID, buf)
}

func (store *ResultStore) GetMeta(runID uuid.UUID) (*RunMeta, error) {
	buf, err := store.backend.GetMeta(runID)
	if err != nil {
		return nil, err
	}
	return BytesToMeta(buf)
}

// ListResults loads every stored result of a run, ordered by
// replicate ID.
func (store *ResultStore) ListResults(runID uuid.UUID) ([]*estimator.ReplicateResult, error) {
	var results []*estimator.ReplicateResult
	err := store.backend.IterateRun(runID, func(_ int64, buf []byte) error {
		result, err := BytesToResult(buf)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ReplicateID < results[j].ReplicateID
	})
	return results, nil
}

func (store *ResultStore) Close() error {
	return store.backend.Close()
}
