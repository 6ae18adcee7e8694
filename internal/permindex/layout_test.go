package permindex

import (
	"testing"

	"github.com/zhongpingliang/simhash/fingerprint"
)

func TestBuildLayoutsTiling(t *testing.T) {
	for _, maxHamDist := range []int{0, 1, 2, 3} {
		layouts := buildLayouts(maxHamDist, 0, width)
		if len(layouts) != maxHamDist+1 {
			t.Fatalf("d=%d: got %d layouts, want %d", maxHamDist, len(layouts), maxHamDist+1)
		}

		var union uint64
		var total int
		for i, l := range layouts {
			if l.rightForwardMask&union != 0 {
				t.Fatalf("d=%d block %d: rightForwardMask overlaps an earlier block", maxHamDist, i)
			}
			union |= l.rightForwardMask
			total += l.rightWidth
		}
		if total != width {
			t.Fatalf("d=%d: block widths sum to %d, want %d", maxHamDist, total, width)
		}
		if union != 0xFFFFFFFFFFFFFFFF {
			t.Fatalf("d=%d: blocks don't tile the full word, union=%#x", maxHamDist, union)
		}
	}
}

func TestBuildLayoutsWidestFirst(t *testing.T) {
	// width=64, d+1=3 blocks -> 21,21,22 isn't how remainder is distributed;
	// per buildLayouts, the remainder goes to the lowest-indexed blocks.
	layouts := buildLayouts(2, 0, 64)
	if layouts[0].rightWidth < layouts[2].rightWidth {
		t.Fatalf("expected the lowest-indexed block to be widest or equal, got widths %d,%d,%d",
			layouts[0].rightWidth, layouts[1].rightWidth, layouts[2].rightWidth)
	}
}

func TestForwardBackwardRoundTrip(t *testing.T) {
	layouts := buildLayouts(3, 0, width)
	vals := []uint64{0, 1, 0xFFFFFFFFFFFFFFFF, 0xDEADBEEFCAFEBABE, 0x1, 0x8000000000000000}
	for _, l := range layouts {
		for _, v := range vals {
			h := fingerprint.Fingerprint(v)
			got := backward(forward(h, l), l)
			if got != h {
				t.Errorf("backward(forward(%#x)) = %#x, want %#x (leftWidth=%d rightWidth=%d)",
					v, got, v, l.leftWidth, l.rightWidth)
			}
		}
	}
}

func TestForwardIdentityForBlockZero(t *testing.T) {
	layouts := buildLayouts(2, 0, width)
	h := fingerprint.Fingerprint(0xABCDEF0123456789)
	if forward(h, layouts[0]) != h {
		t.Fatal("forward should be the identity for the block-0 layout (leftWidth == 0)")
	}
}

func TestForwardRaisesBlockToHighBits(t *testing.T) {
	layouts := buildLayouts(1, 0, 8) // two 4-bit blocks within the low byte
	l := layouts[1]                  // the non-identity block
	// set only the bits belonging to block 1's original position
	h := fingerprint.Fingerprint(l.rightForwardMask)
	permuted := forward(h, l)
	if uint64(permuted)&l.leftBackwardMask != l.leftBackwardMask {
		t.Fatalf("forward did not raise block 1's bits into the high position: got %#x", permuted)
	}
}
