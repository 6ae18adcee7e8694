// Package permindex implements the permuted, blocked, multi-level
// near-duplicate index described by the pigeonhole argument: split a 64-bit
// fingerprint into d+1 blocks, and any pair within Hamming distance d must
// share at least one block bit-for-bit. Index is the recursive engine;
// blockLayout is the per-block bit-mask bookkeeping it is built from.
package permindex

import "github.com/zhongpingliang/simhash/fingerprint"

const width = fingerprint.Width

// blockLayout describes one permutation of the 64-bit word: which block is
// being raised to the high end, and the masks needed to do that (forward)
// and undo it (backward).
//
// Worked example (mirrors simhash_table.cpp's comment): splitting
//
//	x = X | AA | BBB | CCCC | DDDDD
//
// so that block BBB is raised to the top, giving
//
//	y = X | BBB | AA | CCCC | DDDDD
//
// yields leftForwardMask over AA, rightForwardMask over BBB,
// leftBackwardMask over where BBB now sits in y, rightBackwardMask over
// where AA now sits in y, and surroundMask over X | CCCC | DDDDD (untouched
// by the permutation).
type blockLayout struct {
	leftForwardMask   uint64
	rightForwardMask  uint64
	leftBackwardMask  uint64
	rightBackwardMask uint64
	surroundMask      uint64
	leftWidth         int
	rightWidth        int
}

// buildLayouts computes the d+1 blockLayouts for an index covering the bit
// range [maskBeginPos, maskEndPos). Their rightForwardMasks tile that range
// disjointly, widest-first: any remainder from dividing the range into d+1
// parts goes to the lowest-indexed (and therefore widest) blocks.
func buildLayouts(maxHamDist, maskBeginPos, maskEndPos int) []blockLayout {
	blockNum := maxHamDist + 1
	maskWidth := maskEndPos - maskBeginPos
	blockWidth := maskWidth / blockNum
	remainder := maskWidth - blockWidth*blockNum

	layouts := make([]blockLayout, blockNum)
	top := maskEndPos
	for i := 0; i < blockNum; i++ {
		var l blockLayout

		if i == 0 {
			l.leftWidth = 0
			l.leftForwardMask = 0
		} else {
			prev := layouts[i-1]
			l.leftWidth = prev.leftWidth + prev.rightWidth
			l.leftForwardMask = prev.leftForwardMask | prev.rightForwardMask
		}

		l.rightWidth = blockWidth
		if remainder > 0 {
			l.rightWidth++
			remainder--
		}

		l.rightForwardMask = 0
		for j := top - l.rightWidth; j < top; j++ {
			l.rightForwardMask |= 1 << uint(j)
		}
		top -= l.rightWidth

		l.leftBackwardMask = l.rightForwardMask << uint(l.leftWidth)
		l.rightBackwardMask = l.leftForwardMask >> uint(l.rightWidth)
		l.surroundMask = ^(l.leftForwardMask | l.rightForwardMask)

		layouts[i] = l
	}
	return layouts
}

// forward permutes h so that the layout's chosen block moves to the high
// end of the permuted region, with everything outside that region
// (surroundMask) left untouched. It is the identity when l.leftWidth == 0
// (the block-0 layout).
func forward(h fingerprint.Fingerprint, l blockLayout) fingerprint.Fingerprint {
	x := uint64(h)
	return fingerprint.Fingerprint(
		((x & l.leftForwardMask) >> uint(l.rightWidth)) |
			((x & l.rightForwardMask) << uint(l.leftWidth)) |
			(x & l.surroundMask),
	)
}

// backward undoes forward: backward(forward(x, l), l) == x for every x.
func backward(h fingerprint.Fingerprint, l blockLayout) fingerprint.Fingerprint {
	y := uint64(h)
	return fingerprint.Fingerprint(
		((y & l.leftBackwardMask) >> uint(l.leftWidth)) |
			((y & l.rightBackwardMask) << uint(l.rightWidth)) |
			(y & l.surroundMask),
	)
}
