/*
Package types defines the small set of value types shared across this
core: the (uuid, query) transaction envelope, the RunStmt request/
response wire shapes, the record value wrapper, the peer descriptor
used for partitioning, and the node configuration loaded by pkg/config.

# See Also

  - pkg/analyzer, pkg/executor, pkg/scheduler, pkg/sequencer for how
    Transaction and RunStmtResponse flow through the system
  - pkg/partition for how Peer is used
  - pkg/config for how NodeConfig is populated
*/
package types
