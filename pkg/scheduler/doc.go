/*
Package scheduler implements the per-node deterministic-concurrency-control
orchestrator: for every transaction it analyzes the query,
enqueues the resulting lock set with the lock manager, suspends the
caller until granted, runs the executor, and releases the locks on the
way out.

	SubmitTxn(txn)
	  analyze(txn.Query) -> Statement
	  lock.PutTxn(uuid, Statement.LockSet())   [under scheduler mutex]
	  lock.PopReadyTxns() -> wake notifiers
	  <-notify                                  [no mutex held]
	  executor.ExecuteStatement(stmt)           [no mutex held]
	  lock.CompleteTxn(uuid)                    [under scheduler mutex]
	  lock.PopReadyTxns() -> wake notifiers

Two transactions sharing a record are always granted in the order their
PutTxn calls happened — which pkg/sequencer guarantees is the global log
order — so every replica executes conflicting transactions identically
without any cross-node coordination at this layer.

# See Also

  - pkg/lock for the FIFO queues SubmitTxn drives
  - pkg/executor for what runs once a transaction is ready
  - pkg/sequencer for what calls SubmitTxn and in what order
*/
package scheduler
