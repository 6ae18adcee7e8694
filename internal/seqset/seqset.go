// Package seqset implements the ordered 64-bit fingerprint container the
// near-duplicate index bottoms out in. Its defining operation is a
// high-order-prefix-filtered range scan, which is why it is backed by an
// order-preserving balanced tree (github.com/google/btree) rather than a
// hash set: a hash set can answer "is x present" but not "give me
// everything between lo and hi" in better than linear time.
package seqset

import (
	"github.com/google/btree"

	"github.com/zhongpingliang/simhash/fingerprint"
)

// degree is the btree branching factor. google/btree's own benchmarks settle
// around 32 for integer-keyed trees of this size; there is nothing
// fingerprint-specific about the choice.
const degree = 32

// Set is an ordered set of fingerprint.Fingerprint values supporting exact
// membership and high-order-prefix-filtered range scans.
type Set struct {
	tree *btree.BTreeG[uint64]
}

// New creates an empty Set.
func New() *Set {
	return &Set{tree: btree.NewOrderedG[uint64](degree)}
}

// Insert adds h to the set. It returns false if h was already present (the
// set is left unchanged) and true if h was newly inserted.
func (s *Set) Insert(h fingerprint.Fingerprint) bool {
	_, existed := s.tree.ReplaceOrInsert(uint64(h))
	return !existed
}

// Remove deletes h from the set. It returns true iff h was present.
func (s *Set) Remove(h fingerprint.Fingerprint) bool {
	_, existed := s.tree.Delete(uint64(h))
	return existed
}

// Contains reports whether h is present in the set.
func (s *Set) Contains(h fingerprint.Fingerprint) bool {
	return s.tree.Has(uint64(h))
}

// Size returns the number of fingerprints in the set.
func (s *Set) Size() int {
	return s.tree.Len()
}

// Clear empties the set.
func (s *Set) Clear() {
	s.tree.Clear(false)
}

// Ascend calls fn for every stored fingerprint in ascending order, stopping
// early if fn returns false. It is used by the persistence layer to produce
// the canonical on-disk ordering.
func (s *Set) Ascend(fn func(fingerprint.Fingerprint) bool) {
	s.tree.Ascend(func(h uint64) bool {
		return fn(fingerprint.Fingerprint(h))
	})
}

// rangeBounds computes the inclusive [lo, hi] scan range a mask defines:
// every stored x with x&mask == h&mask satisfies lo <= x <= hi.
func rangeBounds(h fingerprint.Fingerprint, mask fingerprint.Fingerprint) (lo, hi uint64) {
	return uint64(h & mask), uint64(h | ^mask)
}

// FindNearDups clears ans and appends every stored fingerprint x, among
// those whose bits under mask equal h's bits under mask, with
// HammingDistance(h, x) <= d. It returns true iff ans is non-empty.
func (s *Set) FindNearDups(h fingerprint.Fingerprint, d int, mask fingerprint.Fingerprint, ans *[]fingerprint.Fingerprint) bool {
	*ans = (*ans)[:0]
	lo, hi := rangeBounds(h, mask)
	s.tree.AscendGreaterOrEqual(lo, func(x uint64) bool {
		if x > hi {
			return false
		}
		cand := fingerprint.Fingerprint(x)
		if cand&mask != h&mask {
			return true
		}
		if fingerprint.IsNearDup(h, cand, d) {
			*ans = append(*ans, cand)
		}
		return true
	})
	return len(*ans) > 0
}

// FindFirstNearDup scans the same prefix-filtered range as FindNearDups but
// stops at the first hit, writing it to *out. It returns true iff a hit was
// found.
func (s *Set) FindFirstNearDup(h fingerprint.Fingerprint, d int, mask fingerprint.Fingerprint, out *fingerprint.Fingerprint) bool {
	lo, hi := rangeBounds(h, mask)
	found := false
	s.tree.AscendGreaterOrEqual(lo, func(x uint64) bool {
		if x > hi {
			return false
		}
		cand := fingerprint.Fingerprint(x)
		if cand&mask != h&mask {
			return true
		}
		if fingerprint.IsNearDup(h, cand, d) {
			*out = cand
			found = true
			return false
		}
		return true
	})
	return found
}

// HasNearDup is a boolean-only wrapper over FindFirstNearDup.
func (s *Set) HasNearDup(h fingerprint.Fingerprint, d int, mask fingerprint.Fingerprint) bool {
	var tmp fingerprint.Fingerprint
	return s.FindFirstNearDup(h, d, mask, &tmp)
}
