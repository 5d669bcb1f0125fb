package digest

import (
	"hash"

	"github.com/zeebo/xxh3"
)

// xxh3.Hasher already satisfies hash.Hash with a big-endian 64-bit Sum.
func newXXH3() hash.Hash {
	return xxh3.New()
}

// xxh3Hash128 exposes the 128-bit XXH3 digest through hash.Hash.
type xxh3Hash128 struct {
	*xxh3.Hasher
}

func newXXH3128() hash.Hash {
	return xxh3Hash128{xxh3.New()}
}

func (h xxh3Hash128) Size() int { return 16 }

// Sum appends the 128-bit digest, high word first.
func (h xxh3Hash128) Sum(b []byte) []byte {
	sum := h.Sum128().Bytes()
	return append(b, sum[:]...)
}
