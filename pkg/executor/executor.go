// Package executor implements the in-memory cached read-modify-write
// cycle a transaction runs against the embedded KV store. The executor
// never acquires or releases locks itself; the scheduler
// holds every lock in a transaction's lock set for the full duration of
// Execute, which is what lets the executor read, mutate, and flush its
// cache without any concurrency control of its own.
package executor

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calvindb/calvindb/pkg/analyzer"
	"github.com/calvindb/calvindb/pkg/log"
	"github.com/calvindb/calvindb/pkg/metrics"
	"github.com/calvindb/calvindb/pkg/record"
	"github.com/calvindb/calvindb/pkg/storage"
	"github.com/calvindb/calvindb/pkg/types"
)

// ErrMissingRecord is returned when the read phase (read_set ∪
// update_set) encounters a record that doesn't exist in the KV store.
var ErrMissingRecord = errors.New("executor: missing record")

// ErrExpectedRecord is returned when a SELECT's predicated key is not
// present in the in-transaction cache after the read phase. Since the
// cache is always populated from exactly the statement's own read_set,
// this only fires if a caller hands Execute a Statement whose ReadSet
// doesn't match what it actually selects — defensive, not expected in
// normal operation.
var ErrExpectedRecord = errors.New("executor: expected record")

const valueWidth = 8

// cacheEntry is one record's value as seen by the in-flight transaction,
// plus whether it has been written and needs flushing back to the KV
// store at the end of Execute.
type cacheEntry struct {
	value uint64
	dirty bool
}

// Executor runs one transaction's statement against an embedded KV
// store, using a private in-transaction cache so that a statement's own
// reads and writes compose without re-touching the store until flush.
type Executor struct {
	store  storage.Store
	logger zerolog.Logger
}

// New returns an Executor backed by store.
func New(store storage.Store) *Executor {
	return &Executor{store: store, logger: log.WithComponent("executor")}
}

// Execute analyzes txn.Query and runs it to completion, returning the
// SELECT result rows (empty for INSERT/UPDATE).
func (e *Executor) Execute(txn types.Transaction) ([]types.RecordStorage, error) {
	stmt, err := analyzer.Analyze(txn.Query)
	if err != nil {
		return nil, err
	}
	return e.ExecuteStatement(stmt)
}

// ExecuteStatement runs a pre-analyzed statement, for callers (like the
// scheduler) that already parsed it once to compute the lock set and
// don't want to parse it twice.
func (e *Executor) ExecuteStatement(stmt analyzer.Statement) ([]types.RecordStorage, error) {
	kind := statementKind(stmt)
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ExecutorOpDuration, kind)

	cache := make(map[record.Key]*cacheEntry)
	for _, k := range stmt.ReadSet {
		v, err := e.load(k)
		if err != nil {
			return nil, err
		}
		cache[k] = &cacheEntry{value: v}
	}
	for _, k := range stmt.UpdateSet {
		v, err := e.load(k)
		if err != nil {
			return nil, err
		}
		cache[k] = &cacheEntry{value: v}
	}

	var results []types.RecordStorage
	switch kind {
	case "select":
		for _, k := range stmt.ReadSet {
			entry, ok := cache[k]
			if !ok {
				return nil, fmt.Errorf("%w: record %d", ErrExpectedRecord, k)
			}
			results = append(results, types.RecordStorage{Val: entry.value})
		}
	case "insert":
		for _, k := range stmt.InsertSet {
			cache[k] = &cacheEntry{value: stmt.InsertValues[k], dirty: true}
		}
	case "update":
		for _, k := range stmt.UpdateSet {
			entry, ok := cache[k]
			if !ok {
				return nil, fmt.Errorf("%w: record %d", ErrExpectedRecord, k)
			}
			entry.value = stmt.UpdateValue
			entry.dirty = true
		}
	}

	for k, entry := range cache {
		if !entry.dirty {
			continue
		}
		if err := e.flush(k, entry.value); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func statementKind(stmt analyzer.Statement) string {
	switch {
	case len(stmt.InsertSet) > 0:
		return "insert"
	case len(stmt.UpdateSet) > 0:
		return "update"
	default:
		return "select"
	}
}

func (e *Executor) load(k record.Key) (uint64, error) {
	raw, err := e.store.Get(record.StorageKey(k))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%w: record %d", ErrMissingRecord, k)
		}
		return 0, fmt.Errorf("executor: read record %d: %w", k, err)
	}
	if len(raw) != valueWidth {
		return 0, fmt.Errorf("executor: corrupt value for record %d (want %d bytes, got %d)", k, valueWidth, len(raw))
	}
	return binary.LittleEndian.Uint64(raw), nil
}

func (e *Executor) flush(k record.Key, v uint64) error {
	buf := make([]byte, valueWidth)
	binary.LittleEndian.PutUint64(buf, v)
	if err := e.store.Put(record.StorageKey(k), buf); err != nil {
		return fmt.Errorf("executor: write record %d: %w", k, err)
	}
	return nil
}
