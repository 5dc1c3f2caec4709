package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvindb/calvindb/pkg/record"
	"github.com/calvindb/calvindb/pkg/types"
)

func TestPeerForNoPeersErrors(t *testing.T) {
	_, err := PeerFor(record.Key(1), nil)
	assert.ErrorIs(t, err, ErrNoPeers)
}

func TestPeerForIsStableForSameKeyAndPeers(t *testing.T) {
	peers := []types.Peer{
		{UUID: "b", Address: "10.0.0.2:9000"},
		{UUID: "a", Address: "10.0.0.1:9000"},
	}

	p1, err := PeerFor(record.Key(42), peers)
	require.NoError(t, err)
	p2, err := PeerFor(record.Key(42), peers)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestPeerForSinglePeerAlwaysWins(t *testing.T) {
	peers := []types.Peer{{UUID: "only", Address: "10.0.0.1:9000"}}

	for _, k := range []record.Key{0, 1, 5000, ^record.Key(0)} {
		p, err := PeerFor(k, peers)
		require.NoError(t, err)
		assert.Equal(t, "only", p.UUID)
	}
}

func TestSortedPeersOrdersByUUID(t *testing.T) {
	peers := []types.Peer{
		{UUID: "zeta"}, {UUID: "alpha"}, {UUID: "mu"},
	}
	sorted := SortedPeers(peers)
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, []string{sorted[0].UUID, sorted[1].UUID, sorted[2].UUID})
}
