// Package storage persists per-replicate estimator results so that
// expensive runs can be reloaded and re-analyzed without re-fitting.
// Keys pack (run ID, record kind, replicate ID); backends are safe for
// concurrent use.
package storage

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/google/uuid"
)

const (
	kindResult byte = iota
	kindMeta
)

var ErrNotFound = errors.New("storage: key not found")

// GetKey packs a storage key.
// <16 bytes run ID> <1 byte kind> <8 bytes replicate ID>
func GetKey(kind byte, runID uuid.UUID, replicateID int64) []byte {
	buf := make([]byte, 25)
	copy(buf[:16], runID[:])
	buf[16] = kind
	binary.LittleEndian.PutUint64(buf[17:], uint64(replicateID))
	return buf
}

func GetRunIDFromKey(buf []byte) uuid.UUID {
	var id uuid.UUID
	copy(id[:], buf[:16])
	return id
}

func GetKindFromKey(buf []byte) byte {
	return buf[16]
}

func GetReplicateIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[17:]))
}

type Backend interface {
	Get(runID uuid.UUID, replicateID int64) ([]byte, error)
	Put(runID uuid.UUID, replicateID int64, buf []byte) error
	Delete(runID uuid.UUID, replicateID int64) error

	GetMeta(runID uuid.UUID) ([]byte, error)
	PutMeta(runID uuid.UUID, buf []byte) error

	// IterateRun visits every stored result of a run, in no
	// particular order.
	IterateRun(runID uuid.UUID, lambda func(replicateID int64, buf []byte) error) error

	Close() error
}

type InMemoryBackend struct {
	mu      sync.Mutex
	records map[string][]byte
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		records: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) get(key []byte) ([]byte, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	buf, ok := backend.records[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return buf, nil
}

func (backend *InMemoryBackend) put(key, buf []byte) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.records[string(key)] = buf
	return nil
}

func (backend *InMemoryBackend) Get(runID uuid.UUID, replicateID int64) ([]byte, error) {
	return backend.get(GetKey(kindResult, runID, replicateID))
}

func (backend *InMemoryBackend) Put(runID uuid.UUID, replicateID int64, buf []byte) error {
	return backend.put(GetKey(kindResult, runID, replicateID), buf)
}

func (backend *InMemoryBackend) Delete(runID uuid.UUID, replicateID int64) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	delete(backend.records, string(GetKey(kindResult, runID, replicateID)))
	return nil
}

func (backend *InMemoryBackend) GetMeta(runID uuid.UUID) ([]byte, error) {
	return backend.get(GetKey(kindMeta, runID, 0))
}

func (backend *InMemoryBackend) PutMeta(runID uuid.UUID, buf []byte) error {
	return backend.put(GetKey(kindMeta, runID, 0), buf)
}

func (backend *InMemoryBackend) IterateRun(
	runID uuid.UUID, lambda func(replicateID int64, buf []byte) error) error {

	backend.mu.Lock()
	defer backend.mu.Unlock()
	for k, buf := range backend.records {
		key := []byte(k)
		if GetRunIDFromKey(key) != runID || GetKindFromKey(key) != kindResult {
			continue
		}
		if err := lambda(GetReplicateIDFromKey(key), buf); err != nil {
			return err
		}
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.records = nil
	return nil
}
