package storage

import "errors"

// ErrNotFound is returned by Get when the requested key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the embedded KV interface the executor reads and writes
// through. Keys and values are opaque bytes: the executor is responsible
// for the record_key -> storage_key and value <-> RecordStorage
// encodings; Store just persists whatever bytes it's given.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound if absent.
	Get(key []byte) ([]byte, error)

	// Put writes value at key, overwriting any existing value.
	Put(key []byte, value []byte) error

	// Close releases the underlying database handle.
	Close() error
}
