package permindex

import (
	"github.com/zhongpingliang/simhash/fingerprint"
	"github.com/zhongpingliang/simhash/internal/seqset"
)

// container is satisfied by both a leaf (a SequentialSet wrapped with a
// fixed Hamming threshold) and an *Index, letting Index recurse into
// sub-containers of either kind without a type switch.
type container interface {
	Insert(fingerprint.Fingerprint) bool
	Remove(fingerprint.Fingerprint) bool
	Contains(fingerprint.Fingerprint) bool
	FindNearDups(h, mask fingerprint.Fingerprint, ans *[]fingerprint.Fingerprint) bool
	FindFirstNearDup(h, mask fingerprint.Fingerprint, out *fingerprint.Fingerprint) bool
	HasNearDup(h, mask fingerprint.Fingerprint) bool
	Clear()
	Size() int
	Ascend(fn func(fingerprint.Fingerprint) bool)
}

// leaf is the level-0 sub-container: a bare seqset.Set scanned under a fixed
// Hamming-distance threshold.
type leaf struct {
	maxHamDist int
	set        *seqset.Set
}

func newLeaf(maxHamDist int) *leaf {
	return &leaf{maxHamDist: maxHamDist, set: seqset.New()}
}

func (l *leaf) Insert(h fingerprint.Fingerprint) bool   { return l.set.Insert(h) }
func (l *leaf) Remove(h fingerprint.Fingerprint) bool   { return l.set.Remove(h) }
func (l *leaf) Contains(h fingerprint.Fingerprint) bool { return l.set.Contains(h) }
func (l *leaf) Clear()                                  { l.set.Clear() }
func (l *leaf) Size() int                               { return l.set.Size() }

func (l *leaf) Ascend(fn func(fingerprint.Fingerprint) bool) { l.set.Ascend(fn) }

func (l *leaf) FindNearDups(h, mask fingerprint.Fingerprint, ans *[]fingerprint.Fingerprint) bool {
	return l.set.FindNearDups(h, l.maxHamDist, mask, ans)
}

func (l *leaf) FindFirstNearDup(h, mask fingerprint.Fingerprint, out *fingerprint.Fingerprint) bool {
	return l.set.FindFirstNearDup(h, l.maxHamDist, mask, out)
}

func (l *leaf) HasNearDup(h, mask fingerprint.Fingerprint) bool {
	return l.set.HasNearDup(h, l.maxHamDist, mask)
}

// Index is the recursive, permuted, blocked near-duplicate index. It holds
// maxHamDist+1 sub-containers, one per block of the [maskBeginPos,
// maskEndPos) bit range; sub-container 0 (the identity permutation) is the
// canonical store that Size, Ascend and exact Contains defer to.
//
// By the pigeonhole principle, any pair of fingerprints within Hamming
// distance maxHamDist must agree bit-for-bit on at least one of the
// maxHamDist+1 blocks; permuting a block to the high end of the word turns
// "does some block match" into a handful of ordered-range prefix scans
// instead of one full-table scan.
type Index struct {
	maxHamDist   int
	level        int
	maskBeginPos int
	maskEndPos   int
	layouts      []blockLayout
	containers   []container
}

// New builds an Index over the bit range [maskBeginPos, maskEndPos) with
// maxHamDist+1 blocks. level controls recursion depth: level == 0 makes
// every sub-container a bare leaf; level >= 1 makes every sub-container
// another Index keyed on the (now-raised) block's bits, recursing into the
// remaining lower bits.
//
// Callers are expected to have already validated maxHamDist and level (see
// simhash.New); New itself does not reject pathological values, matching
// the way the teacher's nfa.Builder trusts its caller to have validated
// config before construction.
func New(maxHamDist, level, maskBeginPos, maskEndPos int) *Index {
	layouts := buildLayouts(maxHamDist, maskBeginPos, maskEndPos)
	containers := make([]container, len(layouts))
	for i, l := range layouts {
		if level == 0 {
			containers[i] = newLeaf(maxHamDist)
		} else {
			containers[i] = New(maxHamDist, level-1, 0, maskEndPos-l.rightWidth)
		}
	}
	return &Index{
		maxHamDist:   maxHamDist,
		level:        level,
		maskBeginPos: maskBeginPos,
		maskEndPos:   maskEndPos,
		layouts:      layouts,
		containers:   containers,
	}
}

// Insert attempts to insert h into the canonical (block-0) sub-container;
// if that reports a duplicate, the redundant copies are never touched, so
// "canonical absent" and "all permuted copies absent" stay in lockstep.
func (idx *Index) Insert(h fingerprint.Fingerprint) bool {
	if !idx.containers[0].Insert(h) {
		return false
	}
	for i := 1; i < len(idx.containers); i++ {
		idx.containers[i].Insert(forward(h, idx.layouts[i]))
	}
	return true
}

// Remove mirrors Insert: it only touches the redundant copies once the
// canonical store confirms h was present.
func (idx *Index) Remove(h fingerprint.Fingerprint) bool {
	if !idx.containers[0].Remove(h) {
		return false
	}
	for i := 1; i < len(idx.containers); i++ {
		idx.containers[i].Remove(forward(h, idx.layouts[i]))
	}
	return true
}

// Contains is an exact lookup against the canonical store; no permutation
// needed.
func (idx *Index) Contains(h fingerprint.Fingerprint) bool {
	return idx.containers[0].Contains(h)
}

// FindNearDups dispatches h to every block's sub-container, permuted so
// that block's bits sit at the index prefix, and backward-permutes every
// hit before appending it to *ans. A single near-duplicate can surface via
// more than one block, so *ans may hold repeats and is not sorted;
// Table.FindNearDups does that sorting and deduplication, not FindNearDups
// itself.
func (idx *Index) FindNearDups(h, mask fingerprint.Fingerprint, ans *[]fingerprint.Fingerprint) bool {
	*ans = (*ans)[:0]
	var sub []fingerprint.Fingerprint
	for i, l := range idx.layouts {
		perm := forward(h, l)
		prefixMask := fingerprint.Fingerprint(l.leftBackwardMask) | mask
		idx.containers[i].FindNearDups(perm, prefixMask, &sub)
		for _, y := range sub {
			*ans = append(*ans, backward(y, l))
		}
	}
	return len(*ans) > 0
}

// FindFirstNearDup dispatches to each block in turn and stops at the first
// hit. Unlike the original C++ (see DESIGN.md, Open Question 1), the
// permuted key is passed to every sub-container consistently — both for the
// prefix-range filter and for the near-dup distance test — since the
// forward permutation preserves Hamming distance (it only reorders bit
// positions common to both operands) and the sub-container's own stored
// values are permuted the same way.
func (idx *Index) FindFirstNearDup(h, mask fingerprint.Fingerprint, out *fingerprint.Fingerprint) bool {
	for i, l := range idx.layouts {
		perm := forward(h, l)
		prefixMask := fingerprint.Fingerprint(l.leftBackwardMask) | mask
		var subOut fingerprint.Fingerprint
		if idx.containers[i].FindFirstNearDup(perm, prefixMask, &subOut) {
			*out = backward(subOut, l)
			return true
		}
	}
	return false
}

// HasNearDup is a boolean wrapper over FindFirstNearDup.
func (idx *Index) HasNearDup(h, mask fingerprint.Fingerprint) bool {
	var tmp fingerprint.Fingerprint
	return idx.FindFirstNearDup(h, mask, &tmp)
}

// Clear empties every sub-container.
func (idx *Index) Clear() {
	for _, c := range idx.containers {
		c.Clear()
	}
}

// Size returns the canonical sub-container's size.
func (idx *Index) Size() int {
	return idx.containers[0].Size()
}

// Ascend iterates the canonical store in ascending order, used by the
// persistence layer to produce a deterministic save order.
func (idx *Index) Ascend(fn func(fingerprint.Fingerprint) bool) {
	idx.containers[0].Ascend(fn)
}
