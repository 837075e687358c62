// Package dispatch holds the process-wide table of byte-level primitives
// (equality, ordering, copy/fill, table lookup, hashing, randomness, and
// byte/byte-set search) exposed read-only for external callers per the
// exported byte-primitive contract. The kernels in this module do not call
// it. There is no separate Move entry: Copy uses the built-in copy, which
// is correct for overlapping slices. Hash is one-shot; the table has no
// streaming-hash entry.
//
// The table is populated once from the detected capability.Mask. Every
// vector-tier slot (haswell, skylake, ice, neon, ...) currently routes to
// the same portable Go body as serial: concrete SIMD intrinsic sequences
// are outside this module's scope, so only the selection precedence itself
// — not a hand-rolled vector kernel — is implemented and tested here.
package dispatch

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/chacha20"

	"github.com/orneryd/affinity/capability"
)

// Table is the set of byte-level primitives selected for the detected
// capability mask.
type Table struct {
	Variant       string
	Equal         func(a, b []byte) bool
	Order         func(a, b []byte) int
	Copy          func(dst, src []byte) int
	Fill          func(dst []byte, v byte)
	Lookup        func(dst, src []byte, lut *[256]byte)
	ByteSum       func(s []byte) uint64
	Hash          func(s []byte, seed uint64) uint64
	FillRandom    func(dst []byte, nonce uint64)
	FindByte      func(s []byte, b byte) int
	RFindByte     func(s []byte, b byte) int
	Find          func(s, needle []byte) int
	RFind         func(s, needle []byte) int
	FindByteSet   func(s []byte, set *[256]bool) int
	RFindByteSet  func(s []byte, set *[256]bool) int
}

var (
	once  sync.Once
	table Table
)

// Get returns the memoized, process-wide dispatch table, building it from
// capability.Detect() on first use.
func Get() *Table {
	once.Do(func() {
		table = build(capability.Detect())
	})
	return &table
}

func build(mask capability.Mask) Table {
	variant := "serial"
	for _, tier := range []struct {
		bit  capability.Mask
		name string
	}{
		{capability.Ice, "ice"},
		{capability.Skylake, "skylake"},
		{capability.Haswell, "haswell"},
		{capability.SVE2, "sve2"},
		{capability.SVE, "sve"},
		{capability.Neon, "neon"},
	} {
		if mask.Has(tier.bit) {
			variant = tier.name
			break
		}
	}

	// Every tier shares the portable implementation below; see the package
	// doc comment for why.
	return Table{
		Variant:      variant,
		Equal:        bytesEqual,
		Order:        bytesOrder,
		Copy:         copyBytes,
		Fill:         fillBytes,
		Lookup:       lookupBytes,
		ByteSum:      byteSum,
		Hash:         hashBytes,
		FillRandom:   fillRandom,
		FindByte:     findByte,
		RFindByte:    rfindByte,
		Find:         find,
		RFind:        rfind,
		FindByteSet:  findByteSet,
		RFindByteSet: rfindByteSet,
	}
}

func bytesEqual(a, b []byte) bool { return bytes.Equal(a, b) }

func bytesOrder(a, b []byte) int { return bytes.Compare(a, b) }

func copyBytes(dst, src []byte) int { return copy(dst, src) }

func fillBytes(dst []byte, v byte) {
	for i := range dst {
		dst[i] = v
	}
}

func lookupBytes(dst, src []byte, lut *[256]byte) {
	for i, b := range src {
		dst[i] = lut[b]
	}
}

func byteSum(s []byte) uint64 {
	var sum uint64
	for _, b := range s {
		sum += uint64(b)
	}
	return sum
}

func hashBytes(s []byte, seed uint64) uint64 {
	return xxhash.Sum64(s) ^ seed*0x9E3779B97F4A7C15
}

// fillRandom fills dst with a deterministic keystream derived from nonce,
// using ChaCha20 as a counter-mode PRNG over an all-zero key. This is a
// reproducibility primitive (fingerprint test fixtures, benchmark corpora),
// not a cryptographic guarantee.
func fillRandom(dst []byte, nonce uint64) {
	var key [32]byte
	var iv [chacha20.NonceSize]byte
	for i := 0; i < 8 && i < len(iv); i++ {
		iv[i] = byte(nonce >> (8 * i))
	}
	c, err := chacha20.NewUnauthenticatedCipher(key[:], iv[:])
	if err != nil {
		// key/nonce sizes are fixed above; this cannot fail.
		panic(err)
	}
	c.XORKeyStream(dst, dst)
}

func findByte(s []byte, b byte) int  { return bytes.IndexByte(s, b) }
func rfindByte(s []byte, b byte) int { return bytes.LastIndexByte(s, b) }
func find(s, needle []byte) int      { return bytes.Index(s, needle) }
func rfind(s, needle []byte) int     { return bytes.LastIndex(s, needle) }

func findByteSet(s []byte, set *[256]bool) int {
	for i, b := range s {
		if set[b] {
			return i
		}
	}
	return -1
}

func rfindByteSet(s []byte, set *[256]bool) int {
	for i := len(s) - 1; i >= 0; i-- {
		if set[s[i]] {
			return i
		}
	}
	return -1
}
