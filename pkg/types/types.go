// Package types holds the small set of value types shared across the
// core: the transaction envelope the sequencer and scheduler pass
// around, the client-visible request/response shapes, and the peer
// descriptor used by the partitioning hook.
package types

import "time"

// Transaction is the (uuid, query) tuple every node's log carries. It is
// immutable after creation and is never mutated in place by the
// scheduler or executor; both treat it as a value to read from.
type Transaction struct {
	UUID  string
	Query string
}

// RunStmtRequest is the client-facing request for the single RPC this
// core exposes.
type RunStmtRequest struct {
	Query string
}

// RunStmtResponse wraps the result of a successfully executed statement.
// Recoverable failures (ParseError, UnsupportedPredicate, MissingRecord,
// ExpectedRecord) are returned as a Go error alongside a nil response,
// never encoded into this struct — see pkg/api for how those cross the
// RPC boundary.
type RunStmtResponse struct {
	UUID    string
	Results []RecordStorage
}

// RecordStorage is the opaque value half of a record: in this core,
// a single 64-bit unsigned integer.
type RecordStorage struct {
	Val uint64
}

// Peer identifies one node in the cluster for the partitioning hook.
// Peers are ordered by UUID to make peer_for deterministic across nodes
// that don't otherwise coordinate.
type Peer struct {
	UUID    string
	Address string
}

// NodeConfig is the per-process configuration loaded by pkg/config: bind
// address, data directory, log level, and the peer list used for
// partitioning.
type NodeConfig struct {
	NodeUUID      string        `yaml:"node_uuid"`
	BindAddr      string        `yaml:"bind_addr"`
	MetricsAddr   string        `yaml:"metrics_addr"`
	DataDir       string        `yaml:"data_dir"`
	LogLevel      string        `yaml:"log_level"`
	JSONLogs      bool          `yaml:"json_logs"`
	Peers         []Peer        `yaml:"peers"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}
