// Package scheduler is the per-node orchestrator that ties the lock
// manager to the executor. SubmitTxn is the single entry
// point: it analyzes a transaction to find its lock set, enqueues it in
// the lock manager, suspends the caller on a one-shot notifier until
// every lock is granted, runs the executor, then releases the locks and
// wakes whichever successors that unblocks.
//
// The scheduler's own mutex covers only the lock manager and the
// notifier map; it is never held across the executor call or the
// one-shot await, so many transactions can be submitted, awaiting, or
// executing concurrently without serializing on this lock.
package scheduler

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/calvindb/calvindb/pkg/analyzer"
	"github.com/calvindb/calvindb/pkg/executor"
	"github.com/calvindb/calvindb/pkg/lock"
	"github.com/calvindb/calvindb/pkg/log"
	"github.com/calvindb/calvindb/pkg/metrics"
	"github.com/calvindb/calvindb/pkg/types"
)

// Scheduler is a per-node singleton: one lock manager, one executor, and
// the map of transactions currently waiting for their locks.
type Scheduler struct {
	mu        sync.Mutex
	locks     *lock.Manager
	notifiers map[string]chan struct{}
	executor  *executor.Executor
	logger    zerolog.Logger
}

// New returns a Scheduler wired to locks and exec.
func New(locks *lock.Manager, exec *executor.Executor) *Scheduler {
	return &Scheduler{
		locks:     locks,
		notifiers: make(map[string]chan struct{}),
		executor:  exec,
		logger:    log.WithComponent("scheduler"),
	}
}

// SubmitTxn is the scheduler's single entry point. It
// blocks the calling goroutine until txn has been fully executed (or
// failed with a recoverable error), and releases every lock txn held on
// every return path — including a panic unwinding through the executor
// call, since the locks must never be abandoned half-held.
func (s *Scheduler) SubmitTxn(txn types.Transaction) ([]types.RecordStorage, error) {
	stmt, err := analyzer.Analyze(txn.Query)
	if err != nil {
		metrics.TxnsFailedTotal.WithLabelValues(errKind(err)).Inc()
		return nil, err
	}

	// The lock set must be the union of all three record sets, not just
	// the insert set: narrowing this to stmt.InsertSet would let a
	// concurrent read or update race an uncommitted insert on the same
	// key, breaking the determinism every replica depends on.
	lockSet := stmt.LockSet()

	notify := make(chan struct{})
	s.mu.Lock()
	s.notifiers[txn.UUID] = notify
	s.locks.PutTxn(txn.UUID, lockSet)
	s.wakeReadyLocked()
	s.mu.Unlock()

	metrics.TxnsSubmittedTotal.Inc()
	waitTimer := metrics.NewTimer()
	schedTimer := metrics.NewTimer()

	<-notify
	waitTimer.ObserveDuration(metrics.LockWaitDuration)

	var results []types.RecordStorage
	var execErr error
	func() {
		defer func() {
			s.mu.Lock()
			s.locks.CompleteTxn(txn.UUID)
			s.wakeReadyLocked()
			s.mu.Unlock()
		}()
		results, execErr = s.executor.ExecuteStatement(stmt)
	}()

	schedTimer.ObserveDuration(metrics.SchedulingLatency)

	if execErr != nil {
		metrics.TxnsFailedTotal.WithLabelValues(errKind(execErr)).Inc()
		s.logger.Warn().Str("txn", txn.UUID).Err(execErr).Msg("transaction failed")
		return nil, execErr
	}
	return results, nil
}

// wakeReadyLocked fires the notifier of every transaction PopReadyTxns
// now reports ready, including txn itself if it was granted every lock
// immediately. Callers must hold s.mu.
func (s *Scheduler) wakeReadyLocked() {
	metrics.LockQueueDepth.Set(float64(s.locks.QueueDepth()))
	for _, u := range s.locks.PopReadyTxns() {
		ch, ok := s.notifiers[u]
		if !ok {
			// Ready with no registered waiter means this node never
			// called SubmitTxn for u — unreachable in the single-node
			// path but defensive against a future multi-caller scheduler.
			continue
		}
		delete(s.notifiers, u)
		close(ch)
	}
}

func errKind(err error) string {
	switch {
	case errors.Is(err, analyzer.ErrParseError):
		return "parse_error"
	case errors.Is(err, analyzer.ErrUnsupportedPredicate):
		return "unsupported_predicate"
	case errors.Is(err, executor.ErrMissingRecord):
		return "missing_record"
	case errors.Is(err, executor.ErrExpectedRecord):
		return "expected_record"
	default:
		return "other"
	}
}
