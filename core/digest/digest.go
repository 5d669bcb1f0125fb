// Package digest provides the catalogue of hash algorithms exposed as SQL functions.
//
// Every algorithm is a constructor of a standard hash.Hash. The SQL layer only
// relies on three operations: New to start a digest, Write to extend it and
// Sum to read the digest of everything written so far. Sum never changes the
// underlying state, so a running digest can be inspected and then extended.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/FocuswithJustin/sqlite-hashes/core/errors"
)

// Algorithm is a named digest capability.
type Algorithm struct {
	// Name is the SQL base name, e.g. "sha256".
	Name string
	// Size is the digest length in bytes.
	Size int
	// New returns a fresh digest state.
	New func() hash.Hash
}

// Sum computes the digest of data in one shot.
func (a Algorithm) Sum(data []byte) []byte {
	h := a.New()
	h.Write(data)
	return h.Sum(nil)
}

// SumHex computes the uppercase hex digest of data.
func (a Algorithm) SumHex(data []byte) string {
	return EncodeHex(a.Sum(data))
}

// EncodeHex renders b as uppercase hexadecimal, two characters per byte.
func EncodeHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

var catalogue = []Algorithm{
	{Name: "md5", Size: md5.Size, New: md5.New},
	{Name: "sha1", Size: sha1.Size, New: sha1.New},
	{Name: "sha224", Size: sha256.Size224, New: sha256.New224},
	{Name: "sha256", Size: sha256.Size, New: sha256.New},
	{Name: "sha384", Size: sha512.Size384, New: sha512.New384},
	{Name: "sha512", Size: sha512.Size, New: sha512.New},
	{Name: "blake3", Size: 32, New: func() hash.Hash { return blake3.New() }},
	{Name: "blake2b_256", Size: blake2b.Size256, New: newBlake2b256},
	{Name: "blake2b_512", Size: blake2b.Size, New: newBlake2b512},
	{Name: "sha3_256", Size: 32, New: sha3.New256},
	{Name: "sha3_512", Size: 64, New: sha3.New512},
	{Name: "fnv1a", Size: 8, New: func() hash.Hash { return fnv.New64a() }},
	{Name: "xxh32", Size: 4, New: newXXH32},
	{Name: "xxh64", Size: 8, New: func() hash.Hash { return xxhash.New() }},
	{Name: "xxh3_64", Size: 8, New: newXXH3},
	{Name: "xxh3_128", Size: 16, New: newXXH3128},
}

var byName = func() map[string]Algorithm {
	m := make(map[string]Algorithm, len(catalogue))
	for _, alg := range catalogue {
		m[alg.Name] = alg
	}
	return m
}()

// blake2b only fails for keys longer than 64 bytes.
func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}

func newBlake2b512() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return h
}

// All returns every known algorithm in catalogue order.
func All() []Algorithm {
	out := make([]Algorithm, len(catalogue))
	copy(out, catalogue)
	return out
}

// Names returns the names of all known algorithms, sorted.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for _, alg := range catalogue {
		names = append(names, alg.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds an algorithm by name (case-insensitive).
// Returns a *errors.NotFoundError if no algorithm has that name.
func Lookup(name string) (Algorithm, error) {
	alg, ok := byName[strings.ToLower(name)]
	if !ok {
		return Algorithm{}, errors.NewNotFound("algorithm", name)
	}
	return alg, nil
}

// Select resolves a list of names in order, dropping duplicates.
// An empty list selects every algorithm.
func Select(names []string) ([]Algorithm, error) {
	if len(names) == 0 {
		return All(), nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]Algorithm, 0, len(names))
	for _, name := range names {
		alg, err := Lookup(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if seen[alg.Name] {
			continue
		}
		seen[alg.Name] = true
		out = append(out, alg)
	}
	return out, nil
}
