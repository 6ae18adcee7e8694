// Package mixer provides the injected string-to-64-bit hash function used to
// turn string features into the pre-hashed features fingerprint.Build
// expects.
//
// The fingerprint and index packages never depend on a concrete hash
// algorithm: they take a Func value. This package exists to supply concrete,
// well-known choices, not to be a hard dependency of the core.
package mixer

import (
	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
)

// Func hashes a string feature key into a 64-bit value suitable as a
// fingerprint.Feature.Key.
type Func func(s string) uint64

// XXHash64 mixes s with xxhash (github.com/cespare/xxhash/v2). It is not
// bit-compatible with Lookup3 and should not be swapped in for a deployment
// that depends on reproducing a prior index built with Lookup3.
func XXHash64(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Murmur3 mixes s with MurmurHash3 x64 (github.com/twmb/murmur3). Like
// XXHash64, it is an alternative to Lookup3, not a drop-in replacement for
// indexes built with it.
func Murmur3(s string) uint64 {
	return murmur3.Sum64([]byte(s))
}
