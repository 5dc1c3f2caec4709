// Package lock implements the per-record FIFO lock manager that gives the
// scheduler its deterministic schedule: locks on any record are granted in
// exactly the order transactions were submitted for that record, and
// acquisition happens atomically across every record a transaction
// touches, so the wait-for graph is always a forest and deadlock cannot
// occur. There is no deadlock detection because there is nothing to
// detect.
package lock

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/calvindb/calvindb/pkg/log"
	"github.com/calvindb/calvindb/pkg/record"
)

// Manager holds the FIFO queues for every record currently locked by a
// live transaction. The zero value is not usable; construct with New.
//
// Every Manager method takes the Manager's own mutex, so it is safe for
// concurrent use on its own (e.g. in tests). The scheduler additionally
// serializes its calls under its own mutex, since it must update the lock
// manager and its notifier map together.
type Manager struct {
	mu     sync.Mutex
	logger zerolog.Logger

	queues       map[record.Key][]uuidKey
	pendingLocks map[uuidKey]map[record.Key]struct{}
	allLocks     map[uuidKey][]record.Key
}

// uuidKey is the transaction identity type the lock manager tracks. It is
// a plain string (the canonical UUID text form) so Manager has no
// dependency on any particular UUID library.
type uuidKey = string

// New returns an empty lock manager.
func New() *Manager {
	return &Manager{
		logger:       log.WithComponent("lock"),
		queues:       make(map[record.Key][]uuidKey),
		pendingLocks: make(map[uuidKey]map[record.Key]struct{}),
		allLocks:     make(map[uuidKey][]record.Key),
	}
}

// PutTxn registers a fresh transaction u against records, appending u to
// each record's queue and computing the set of records for which u is not
// yet at the head. It panics if u is already tracked: put_txn on a
// duplicate UUID is a programming error, never a recoverable condition.
func (m *Manager) PutTxn(u string, records []record.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.allLocks[u]; exists {
		panic(fmt.Sprintf("lock: put_txn called with already-tracked txn %s", u))
	}

	pending := make(map[record.Key]struct{})
	for _, r := range records {
		m.queues[r] = append(m.queues[r], u)
		if m.queues[r][0] != u {
			pending[r] = struct{}{}
		}
	}

	m.allLocks[u] = append([]record.Key(nil), records...)
	m.pendingLocks[u] = pending
}

// PopReadyTxns returns and removes every transaction whose pending-lock
// set has become empty, transferring ownership of "readiness" to the
// caller. A returned transaction still holds every lock in its record
// set until the caller later calls CompleteTxn; PopReadyTxns only clears
// it from the pending-lock map.
func (m *Manager) PopReadyTxns() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popReadyTxnsLocked()
}

func (m *Manager) popReadyTxnsLocked() []string {
	var ready []string
	for u, pending := range m.pendingLocks {
		if len(pending) == 0 {
			ready = append(ready, u)
			delete(m.pendingLocks, u)
		}
	}
	return ready
}

// CompleteTxn releases every lock u holds: for each record in its lock
// set, u must be the current head of that record's queue — popping it
// off and, if a new head emerges, clearing that head out of its own
// pending set. It panics if u is unknown or if any record's head is not
// u, since both indicate a prior invariant violation elsewhere in the
// scheduler.
func (m *Manager) CompleteTxn(u string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, ok := m.allLocks[u]
	if !ok {
		panic(fmt.Sprintf("lock: complete_txn called on unknown txn %s", u))
	}
	delete(m.allLocks, u)
	delete(m.pendingLocks, u)

	for _, r := range records {
		queue := m.queues[r]
		if len(queue) == 0 || queue[0] != u {
			m.logger.Error().Str("txn", u).Uint64("record", uint64(r)).Msg("lock invariant violated on complete_txn")
			panic(fmt.Sprintf("lock: complete_txn(%s) but record %d's queue head is not %s", u, r, u))
		}

		queue = queue[1:]
		if len(queue) == 0 {
			delete(m.queues, r)
			continue
		}
		m.queues[r] = queue

		newHead := queue[0]
		if pending, ok := m.pendingLocks[newHead]; ok {
			// Leave the (possibly now-empty) entry in place: PopReadyTxns
			// scans pendingLocks for empty sets, so deleting it here
			// would make a fully-freed successor unreachable.
			delete(pending, r)
		}
	}
}

// HeadOf reports the transaction currently holding r's lock, for tests
// and diagnostics. It returns ("", false) if r has no queue.
func (m *Manager) HeadOf(r record.Key) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[r]
	if !ok || len(q) == 0 {
		return "", false
	}
	return q[0], true
}

// QueueDepth returns the total number of queued lock requests across all
// records currently tracked, for metrics sampling.
func (m *Manager) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, q := range m.queues {
		total += len(q)
	}
	return total
}
