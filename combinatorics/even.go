package combinatorics

import "fmt"

// EvenPermutationCount returns n!/2, the number of even permutations of n
// items (1 when n < 2).
func EvenPermutationCount(n int) uint64 {
	if n < 2 {
		return 1
	}
	return Factorial(n) / 2
}

// RankEvenPermutation returns the rank of p among even permutations, in
// [0, n!/2).
//
// Only the first n-2 slots carry information: the last two are implied by the
// parity. An odd permutation therefore ranks the same as its even partner,
// the permutation with its last two slots exchanged. Tables rely on this when
// a move takes an even vector to an odd one.
func RankEvenPermutation(p []uint8) uint64 {
	if len(p) < 2 {
		mustBePermutation(p)
		return 0
	}
	// Lehmer weights of the first n-2 digits are all even, so the full rank
	// of p and of its partner are 2m and 2m+1.
	return RankPermutation(p) / 2
}

// UnrankEvenPermutation writes the even permutation of rank r into dst.
func UnrankEvenPermutation(r uint64, dst []uint8) {
	UnrankWithParity(r, 0, dst)
}

// UnrankWithParity writes the permutation of rank r with the requested parity
// (0 even, 1 odd) into dst. The odd result is the even one with the last two
// slots exchanged, so the parity bit has to be known before calling this.
func UnrankWithParity(r uint64, parity uint8, dst []uint8) {
	n := len(dst)
	if r >= EvenPermutationCount(n) {
		panic(fmt.Sprintf("even permutation rank %d out of range [0,%d)", r, EvenPermutationCount(n)))
	}
	if n < 2 {
		if parity != 0 {
			panic("no odd permutation of fewer than two items")
		}
		UnrankPermutation(0, dst)
		return
	}
	UnrankPermutation(2*r, dst)
	if Parity(dst) != parity&1 {
		dst[n-2], dst[n-1] = dst[n-1], dst[n-2]
	}
}
