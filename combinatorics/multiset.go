package combinatorics

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"
)

// MultisetCount returns n!/(c1!·c2!·…·cm!) for group sizes c summing to n.
func MultisetCount(groups []int) uint64 {
	n := 0
	for _, c := range groups {
		if c < 0 {
			panic(fmt.Sprintf("negative group size in %v", groups))
		}
		n += c
	}
	if n > MaxPieces {
		panic(fmt.Sprintf("multiset of %d items exceeds %d", n, MaxPieces))
	}
	count := uint64(1)
	for _, c := range groups {
		count *= uint64(combin.Binomial(n, c))
		n -= c
	}
	return count
}

// ValidateMultiset returns an error unless v holds exactly groups[g] copies of
// each label g.
func ValidateMultiset(v []uint8, groups []int) error {
	var counts [MaxPieces]int
	if len(groups) > MaxPieces {
		return fmt.Errorf("too many groups: %d", len(groups))
	}
	for i, g := range v {
		if int(g) >= len(groups) {
			return fmt.Errorf("slot %d holds label %d but there are only %d groups", i, g, len(groups))
		}
		counts[g]++
	}
	for g, c := range groups {
		if counts[g] != c {
			return fmt.Errorf("label %d appears %d times, want %d", g, counts[g], c)
		}
	}
	return nil
}

// RankMultiset returns the lexicographic rank of the arrangement v among all
// arrangements with the given group sizes.
//
// Walking left to right, every label smaller than the one placed contributes
// the number of arrangements of what remains had that label been placed
// instead. With cur arrangements of rem items left, placing label h leaves
// cur*counts[h]/rem of them; the division is exact and the product stays
// below rem!, so nothing overflows for n <= MaxPieces.
func RankMultiset(v []uint8, groups []int) uint64 {
	if err := ValidateMultiset(v, groups); err != nil {
		panic(fmt.Sprintf("invalid multiset %v: %v", v, err))
	}
	var counts [MaxPieces]uint64
	for g, c := range groups {
		counts[g] = uint64(c)
	}
	cur := MultisetCount(groups)
	rem := uint64(len(v))
	var rank uint64
	for _, g := range v {
		for h := uint8(0); h < g; h++ {
			if counts[h] > 0 {
				rank += cur * counts[h] / rem
			}
		}
		cur = cur * counts[g] / rem
		counts[g]--
		rem--
	}
	return rank
}

// UnrankMultiset writes the arrangement of rank r into dst. len(dst) must
// equal the sum of groups.
func UnrankMultiset(r uint64, groups []int, dst []uint8) {
	n := 0
	var counts [MaxPieces]uint64
	for g, c := range groups {
		counts[g] = uint64(c)
		n += c
	}
	if n != len(dst) {
		panic(fmt.Sprintf("groups %v do not fill %d slots", groups, len(dst)))
	}
	cur := MultisetCount(groups)
	if r >= cur {
		panic(fmt.Sprintf("multiset rank %d out of range [0,%d)", r, cur))
	}
	rem := uint64(n)
	for i := range dst {
		for h := range groups {
			if counts[h] == 0 {
				continue
			}
			t := cur * counts[h] / rem
			if r < t {
				dst[i] = uint8(h)
				cur = t
				counts[h]--
				break
			}
			r -= t
		}
		rem--
	}
}
