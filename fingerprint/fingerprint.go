// Package fingerprint builds and compares 64-bit Simhash fingerprints.
//
// A Fingerprint is a locality-sensitive summary of a weighted feature bag:
// inputs that share most of their features produce fingerprints that differ
// in only a few bits. Build and BuildFromStrings are both invariant under
// permutation of the input features, since bit accumulation is commutative.
package fingerprint

import (
	"math/bits"
	"strings"

	"github.com/zhongpingliang/simhash/mixer"
)

// Width is the bit width of a Fingerprint. The index and permutation layers
// are written against this constant, not a hardcoded 64, but changing it is
// explicitly a non-goal (see spec.md §1): BlockLayout's mask arithmetic and
// the binary-string conversions below assume 64 throughout.
const Width = 64

// DefaultMaxHamDist is the default Hamming-distance threshold, used by
// simhash.DefaultConfig. IsNearDup has no implicit default: its threshold is
// always passed explicitly, and callers wanting the default pass this value.
const DefaultMaxHamDist = 3

// Fingerprint is a 64-bit Simhash value. Bit 0 is the least significant bit.
type Fingerprint uint64

// Feature is a pre-hashed weighted feature: a 64-bit key and a (possibly
// negative, possibly zero) weight.
type Feature struct {
	Key    uint64
	Weight float64
}

// StringFeature is a weighted feature given as a string key, to be hashed by
// a mixer.Func before accumulation.
type StringFeature struct {
	Key    string
	Weight float64
}

// Build constructs a Fingerprint from pre-hashed features by bit-vote
// accumulation: for each feature and each bit position, the feature's weight
// is added to that bit's accumulator if the bit is set in the feature's key,
// and subtracted otherwise. A bit in the result is 1 iff its accumulator is
// strictly positive.
//
// The order of features does not affect the result. An empty feature set, or
// a set whose weights cancel exactly to zero in every bit, yields 0.
func Build(features []Feature) Fingerprint {
	var holds [Width]float64
	for _, f := range features {
		for i := 0; i < Width; i++ {
			if f.Key&(1<<uint(i)) != 0 {
				holds[i] += f.Weight
			} else {
				holds[i] -= f.Weight
			}
		}
	}
	return fromHolds(holds)
}

// BuildFromStrings hashes each feature's key through hasher and accumulates
// exactly as Build does. If hasher is nil, BuildFromStrings returns 0
// without hashing anything or mutating any state — this mirrors the
// original C++ implementation's behavior on a null hash function and is
// kept for compatibility rather than promoted to an error.
func BuildFromStrings(features []StringFeature, hasher mixer.Func) Fingerprint {
	if hasher == nil {
		return 0
	}
	hashed := make([]Feature, len(features))
	for i, f := range features {
		hashed[i] = Feature{Key: hasher(f.Key), Weight: f.Weight}
	}
	return Build(hashed)
}

func fromHolds(holds [Width]float64) Fingerprint {
	var result Fingerprint
	for i := 0; i < Width; i++ {
		if holds[i] > 0 {
			result |= 1 << uint(i)
		}
	}
	return result
}

// HammingDistance returns the number of bit positions in which a and b
// differ, in the range [0, Width].
func HammingDistance(a, b Fingerprint) int {
	return bits.OnesCount64(uint64(a ^ b))
}

// IsNearDup reports whether a and b are near-duplicates: whether their
// Hamming distance is at most d.
func IsNearDup(a, b Fingerprint, d int) bool {
	return HammingDistance(a, b) <= d
}

// ToBinaryString renders h as a 64-character string of '0'/'1' characters,
// most-significant bit (bit 63) first.
func ToBinaryString(h Fingerprint) string {
	var buf [Width]byte
	for i := 0; i < Width; i++ {
		bit := (h >> uint(Width-1-i)) & 1
		if bit == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf[:])
}

// FromBinaryString parses s as a most-significant-bit-first binary string
// and returns the corresponding Fingerprint. Strings shorter than Width
// characters are interpreted as the low-order bits, left-padded with zero;
// characters other than '0'/'1' are treated as zero bits. FromBinaryString
// is the inverse of ToBinaryString: FromBinaryString(ToBinaryString(h)) ==
// h for every h.
func FromBinaryString(s string) Fingerprint {
	var h Fingerprint
	n := len(s)
	if n > Width {
		s = s[n-Width:]
		n = Width
	}
	for i := 0; i < n; i++ {
		if s[i] == '1' {
			h |= 1 << uint(n-1-i)
		}
	}
	return h
}

// IsValidBinaryString reports whether s is a strict, well-formed binary
// string (only '0'/'1' characters, at most Width of them) — the condition
// persist.LoadText enforces before trusting a line's length and content.
func IsValidBinaryString(s string) bool {
	if len(s) == 0 || len(s) > Width {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r != '0' && r != '1' }) == -1
}
