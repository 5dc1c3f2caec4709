// Package record defines the identity of a stored record: its primary-key
// id, the byte encoding used as both KV storage key and lock identity, and
// the virtual-node tag used to route it to a peer for partitioning.
package record

import (
	"crypto/md5" //nolint:gosec // used only as a stable distribution function, not for security
	"encoding/binary"
)

// Key is a record's primary-key identity. It is used directly as the lock
// manager's lock identity type.
type Key uint64

// StorageKey returns the deterministic byte encoding of k used as the KV
// store key. The encoding is a fixed-width little-endian uint64, which is
// bijective with k so that KV round-trips and cross-replica comparisons
// agree.
func StorageKey(k Key) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(k))
	return buf
}

// KeyFromStorageKey decodes bytes produced by StorageKey back into a Key.
// It panics if b is not exactly 8 bytes, since that indicates a corrupted
// or foreign key and callers should never see it.
func KeyFromStorageKey(b []byte) Key {
	if len(b) != 8 {
		panic("record: storage key must be 8 bytes")
	}
	return Key(binary.LittleEndian.Uint64(b))
}

// VirtualNode derives the 16-bit partitioning tag for k: the first two
// bytes, read little-endian, of the MD5 digest of k's storage key. MD5 is
// used only so every replica agrees on the same tag for the same id; it
// carries no security weight here.
func VirtualNode(k Key) uint16 {
	sum := md5.Sum(StorageKey(k)) //nolint:gosec
	return binary.LittleEndian.Uint16(sum[:2])
}
