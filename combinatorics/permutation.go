// Package combinatorics contains the bijective ranking schemes used to turn
// piece vectors into dense coordinates: permutations (Lehmer code), even
// permutations, multisets, and orientation vectors.
//
// Piece vectors are []uint8. Ranking functions panic when handed a vector
// that is not in their domain; a bad vector here means a broken generator
// definition, and carrying on would write a corrupt table.
package combinatorics

import (
	"fmt"
	"math/bits"

	"gonum.org/v1/gonum/stat/combin"
)

// MaxPieces is the longest piece vector we rank. 20! still fits in a uint64.
const MaxPieces = 20

var factorials [MaxPieces + 1]uint64

func init() {
	factorials[0] = 1
	for n := 1; n <= MaxPieces; n++ {
		factorials[n] = uint64(combin.NumPermutations(n, n))
	}
}

// Factorial returns n! for 0 <= n <= MaxPieces.
func Factorial(n int) uint64 {
	if n < 0 || n > MaxPieces {
		panic(fmt.Sprintf("factorial out of range: %d", n))
	}
	return factorials[n]
}

// ValidatePermutation returns an error unless p holds each of 0..len(p)-1
// exactly once.
func ValidatePermutation(p []uint8) error {
	if len(p) > MaxPieces {
		return fmt.Errorf("permutation of length %d exceeds %d", len(p), MaxPieces)
	}
	var seen uint32
	for i, v := range p {
		if int(v) >= len(p) {
			return fmt.Errorf("slot %d holds label %d, outside [0,%d)", i, v, len(p))
		}
		if seen&(1<<v) != 0 {
			return fmt.Errorf("label %d appears more than once", v)
		}
		seen |= 1 << v
	}
	return nil
}

func mustBePermutation(p []uint8) {
	if err := ValidatePermutation(p); err != nil {
		panic(fmt.Sprintf("invalid permutation %v: %v", p, err))
	}
}

// RankPermutation returns the Lehmer-code rank of p in [0, len(p)!).
func RankPermutation(p []uint8) uint64 {
	mustBePermutation(p)
	n := len(p)
	var rank uint64
	var used uint32
	for i, v := range p {
		// number of labels smaller than v that are still unplaced
		smaller := bits.OnesCount32(^used & (1<<v - 1))
		rank += uint64(smaller) * factorials[n-1-i]
		used |= 1 << v
	}
	return rank
}

// UnrankPermutation writes the permutation of rank r into dst. The length of
// dst fixes n.
func UnrankPermutation(r uint64, dst []uint8) {
	n := len(dst)
	if n > MaxPieces {
		panic(fmt.Sprintf("permutation of length %d exceeds %d", n, MaxPieces))
	}
	if r >= factorials[n] {
		panic(fmt.Sprintf("permutation rank %d out of range [0,%d)", r, factorials[n]))
	}
	var pool [MaxPieces]uint8
	for i := range n {
		pool[i] = uint8(i)
	}
	remaining := n
	for i := range n {
		f := factorials[n-1-i]
		d := r / f
		r %= f
		dst[i] = pool[d]
		copy(pool[d:remaining-1], pool[d+1:remaining])
		remaining--
	}
}

// Parity returns 0 for an even permutation and 1 for an odd one.
func Parity(p []uint8) uint8 {
	mustBePermutation(p)
	var visited uint32
	cycles := 0
	for i := range p {
		if visited&(1<<i) != 0 {
			continue
		}
		cycles++
		for j := uint8(i); visited&(1<<j) == 0; j = p[j] {
			visited |= 1 << j
		}
	}
	return uint8((len(p) - cycles) & 1)
}
