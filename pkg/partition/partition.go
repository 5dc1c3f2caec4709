// Package partition implements an informational peer-routing hook:
// given a record and an ordered peer list, which peer would own it. It never
// gates or reroutes a request in this core — there is no cross-node
// forwarding here — but it is fully specified and cheap, so it's
// implemented and exercised rather than left as a stub.
package partition

import (
	"errors"
	"sort"

	"github.com/calvindb/calvindb/pkg/record"
	"github.com/calvindb/calvindb/pkg/types"
)

// ErrNoPeers is returned when PeerFor is called with an empty peer list.
var ErrNoPeers = errors.New("partition: no peers configured")

// SortedPeers returns a copy of peers ordered by UUID, the stable
// ordering peer_for's index math depends on.
func SortedPeers(peers []types.Peer) []types.Peer {
	sorted := append([]types.Peer(nil), peers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UUID < sorted[j].UUID })
	return sorted
}

// PeerFor returns the peer that owns k:
//
//	peer_for(record) = ordered_peers[ virtual_node(record) / |ordered_peers| ]
//
// An index past the end of the list is clamped to the last peer. peers
// need not be pre-sorted; PeerFor sorts them by UUID itself so callers
// can pass a config's peer list directly.
func PeerFor(k record.Key, peers []types.Peer) (types.Peer, error) {
	if len(peers) == 0 {
		return types.Peer{}, ErrNoPeers
	}
	sorted := SortedPeers(peers)
	idx := int(record.VirtualNode(k)) / len(sorted)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx], nil
}
