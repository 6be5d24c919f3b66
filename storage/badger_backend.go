package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
)

// TestBadgerDB opens a throwaway in-memory badger instance.
func TestBadgerDB() *badger.DB {
	option := badger.DefaultOptions("").WithInMemory(true)
	db, err := badger.Open(option)
	if err != nil {
		panic(err)
	}
	return db
}

type BadgerBackend struct {
	db *badger.DB
}

func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// OpenBadgerBackend opens (or creates) a badger store at path.
func OpenBadgerBackend(path string) (*BadgerBackend, error) {
	db, err := badger.Open(badger.DefaultOptions(path))
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{db: db}, nil
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}

func (backend *BadgerBackend) txnGet(key []byte) ([]byte, error) {
	var valueBytes []byte
	err := backend.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		valueBytes, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return valueBytes, err
}

func (backend *BadgerBackend) txnPut(key, buf []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

func (backend *BadgerBackend) txnDelete(key []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (backend *BadgerBackend) Get(runID uuid.UUID, replicateID int64) ([]byte, error) {
	return backend.txnGet(GetKey(kindResult, runID, replicateID))
}

func (backend *BadgerBackend) Put(runID uuid.UUID, replicateID int64, buf []byte) error {
	return backend.txnPut(GetKey(kindResult, runID, replicateID), buf)
}

func (backend *BadgerBackend) Delete(runID uuid.UUID, replicateID int64) error {
	return backend.txnDelete(GetKey(kindResult, runID, replicateID))
}

func (backend *BadgerBackend) GetMeta(runID uuid.UUID) ([]byte, error) {
	return backend.txnGet(GetKey(kindMeta, runID, 0))
}

func (backend *BadgerBackend) PutMeta(runID uuid.UUID, buf []byte) error {
	return backend.txnPut(GetKey(kindMeta, runID, 0), buf)
}

func (backend *BadgerBackend) IterateRun(
	runID uuid.UUID, lambda func(replicateID int64, buf []byte) error) error {

	prefix := GetKey(kindResult, runID, 0)[:17]
	return backend.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			buf, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := lambda(GetReplicateIDFromKey(item.Key()), buf); err != nil {
				return err
			}
		}
		return nil
	})
}
