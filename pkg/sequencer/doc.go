/*
Package sequencer implements the client-facing RunStmt front-end and the
per-node replicated-log consumer loop that together let independent
schedulers converge on identical state without two-phase commit.

	client -> RunStmt(query)
	  uuid := uuid.New()
	  pending[uuid] = one-shot channel
	  bus.Publish({uuid, query})
	  <-channel                         // every node's consume() below

	consume() [one per node, same bus]
	  for entry := range subscription:
	    scheduler.SubmitTxn(entry)
	    if pending[entry.uuid] exists: fire it with the result

Every Sequencer sharing a Bus receives entries in the same order, so
every node's scheduler makes identical lock-acquisition decisions; that's
what makes replication here a broadcast-and-replay protocol instead of a
consensus protocol; there is no Raft or other consensus layer in this
tree.

# See Also

  - pkg/broadcastlog for the ordering/delivery guarantees RunStmt relies on
  - pkg/scheduler for what consume() calls per entry
*/
package sequencer
