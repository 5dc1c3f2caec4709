// Package sequencer implements the client-facing front-end and the
// per-node replicated-log consumer loop. RunStmt assigns
// a transaction its UUID, registers a one-shot completion callback, and
// publishes it onto the broadcast log; the consumer loop subscribes to
// that same log, feeds every entry to the local scheduler in the order
// it was delivered, and — when the transaction originated on this node —
// resolves the waiting RunStmt call with the scheduler's result.
//
// Every node's consumer loop observes the identical sequence of entries,
// so every node's scheduler makes the identical deterministic locking
// decisions; this is the property the whole cluster's convergence rests
// on.
package sequencer

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calvindb/calvindb/pkg/broadcastlog"
	"github.com/calvindb/calvindb/pkg/log"
	"github.com/calvindb/calvindb/pkg/metrics"
	"github.com/calvindb/calvindb/pkg/scheduler"
	"github.com/calvindb/calvindb/pkg/types"
)

// result is what the consumer loop hands back to a waiting RunStmt call.
type result struct {
	resp types.RunStmtResponse
	err  error
}

// Sequencer is a per-node singleton pairing one broadcast-log subscriber
// with one local scheduler. Multiple Sequencers sharing the same Bus form
// a replicated cluster: every RunStmt on any of them is observed, in the
// same order, by every Sequencer's consumer loop.
type Sequencer struct {
	mu      sync.Mutex
	pending map[string]chan result

	bus       *broadcastlog.Bus
	scheduler *scheduler.Scheduler
	sub       broadcastlog.Subscriber

	stopCh   chan struct{}
	stopOnce sync.Once
	logger   zerolog.Logger
}

// New returns a Sequencer publishing to and consuming from bus, handing
// every consumed transaction to sched. Call Start to begin consuming.
func New(bus *broadcastlog.Bus, sched *scheduler.Scheduler) *Sequencer {
	return &Sequencer{
		pending:   make(map[string]chan result),
		bus:       bus,
		scheduler: sched,
		stopCh:    make(chan struct{}),
		logger:    log.WithComponent("sequencer"),
	}
}

// Start subscribes this node to the broadcast log and launches its
// consumer loop.
func (s *Sequencer) Start() {
	s.sub = s.bus.Subscribe()
	go s.consume()
}

// Stop unsubscribes from the broadcast log and halts the consumer loop.
func (s *Sequencer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.bus.Unsubscribe(s.sub)
	})
}

// RunStmt is the client-facing entry point: it assigns query a fresh
// UUID, publishes it onto the replicated log, and waits for this node's
// consumer loop to report the result.
//
// If ctx is cancelled first, RunStmt returns ctx.Err() without affecting
// the transaction itself — a client abandoning its request only
// abandons its own wait. The transaction was already published and
// every replica, including this one, still executes it.
func (s *Sequencer) RunStmt(ctx context.Context, query string) (types.RunStmtResponse, error) {
	id := uuid.New().String()
	ch := make(chan result, 1)

	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()

	metrics.SequencerInFlight.Inc()
	defer metrics.SequencerInFlight.Dec()

	s.bus.Publish(&broadcastlog.Entry{UUID: id, Query: query})

	select {
	case res := <-ch:
		return res.resp, res.err
	case <-ctx.Done():
		return types.RunStmtResponse{}, ctx.Err()
	}
}

// consume is the per-node log consumer loop: it feeds every broadcast
// entry to the local scheduler in delivery order and resolves any
// locally-pending RunStmt call waiting on that UUID.
func (s *Sequencer) consume() {
	for {
		metrics.LogConsumerLag.Set(float64(len(s.sub)))
		select {
		case entry, ok := <-s.sub:
			if !ok {
				return
			}
			s.handle(entry)
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sequencer) handle(entry *broadcastlog.Entry) {
	rows, err := s.scheduler.SubmitTxn(types.Transaction{UUID: entry.UUID, Query: entry.Query})

	s.mu.Lock()
	ch, ok := s.pending[entry.UUID]
	if ok {
		delete(s.pending, entry.UUID)
	}
	s.mu.Unlock()

	if !ok {
		// Originated on another node: the scheduler call above still
		// applied the transaction to local state, which is all that's
		// required for replication to converge. There's no callback to
		// fire. (A local RunStmt that gave up waiting keeps its pending
		// entry; its buffered channel receives the result below.)
		return
	}

	ch <- result{
		resp: types.RunStmtResponse{UUID: entry.UUID, Results: rows},
		err:  err,
	}
}
