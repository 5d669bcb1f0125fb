package digest

import (
	"encoding/binary"
	"hash"

	"github.com/OneOfOne/xxhash"
)

// xxh32Hash writes the 32-bit digest big-endian, matching the 64-bit
// xxhash entries.
type xxh32Hash struct {
	*xxhash.XXHash32
}

func newXXH32() hash.Hash {
	return xxh32Hash{xxhash.New32()}
}

func (h xxh32Hash) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, h.Sum32())
}
