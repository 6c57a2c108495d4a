package combinatorics

import (
	"testing"

	"github.com/matryer/is"
)

func TestOrientationRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, tc := range []struct {
		n int
		k uint8
	}{
		{8, 3}, {7, 3}, {6, 3}, {12, 2}, {9, 2}, {1, 3}, {5, 4},
	} {
		o := make([]uint8, tc.n)
		for r := uint64(0); r < OrientationCount(tc.n, tc.k); r++ {
			UnrankOrientation(r, tc.k, o)
			// the derived last entry always restores the invariant
			is.NoErr(ValidateOrientation(o, tc.k))
			is.Equal(RankOrientation(o, tc.k), r)
		}
	}
}

func TestOrientationLastEntry(t *testing.T) {
	is := is.New(t)
	o := make([]uint8, 8)
	// all zero digits: last entry must be 0, not k
	UnrankOrientation(0, 3, o)
	is.Equal(o, []uint8{0, 0, 0, 0, 0, 0, 0, 0})
	UnrankOrientation(1, 3, o)
	is.Equal(o, []uint8{0, 0, 0, 0, 0, 0, 1, 2})
	UnrankOrientation(OrientationCount(8, 3)-1, 3, o)
	is.Equal(o, []uint8{2, 2, 2, 2, 2, 2, 2, 1})
}

func TestRankOrientationPanicsOnBrokenInvariant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	RankOrientation([]uint8{1, 0, 0, 0}, 3)
}

func TestFreeOrientationRoundTrip(t *testing.T) {
	is := is.New(t)
	o := make([]uint8, 3)
	for r := uint64(0); r < Power(4, 3); r++ {
		UnrankFreeOrientation(r, 4, o)
		is.Equal(RankFreeOrientation(o, 4), r)
	}
}

func TestSelectedOrientationRoundTrip(t *testing.T) {
	is := is.New(t)
	companion := []uint8{0, 1, 1, 0, 1, 2, 1, 0, 2, 2, 1, 1}
	sel := NewLabelSet(1)
	is.Equal(CountSelected(companion, sel), 6)
	o := make([]uint8, len(companion))
	for r := uint64(0); r < Power(2, 6); r++ {
		UnrankSelectedOrientation(r, 2, companion, sel, o)
		for i, l := range companion {
			if !sel.Has(l) {
				is.Equal(o[i], uint8(0))
			}
		}
		is.Equal(RankSelectedOrientation(o, 2, companion, sel), r)
	}
}

func TestSelectedOrientationFollowsCompanion(t *testing.T) {
	is := is.New(t)
	sel := NewLabelSet(0, 1)
	a := []uint8{0, 1, 2, 3}
	b := []uint8{2, 3, 0, 1}
	oa := make([]uint8, 4)
	ob := make([]uint8, 4)
	UnrankSelectedOrientation(5, 3, a, sel, oa)
	UnrankSelectedOrientation(5, 3, b, sel, ob)
	is.Equal(oa, []uint8{1, 2, 0, 0})
	is.Equal(ob, []uint8{0, 0, 1, 2})
}

func TestPowerOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Power(3, 41)
}
