package combinatorics

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func TestFactorial(t *testing.T) {
	is := is.New(t)
	is.Equal(Factorial(0), uint64(1))
	is.Equal(Factorial(8), uint64(40320))
	is.Equal(Factorial(12), uint64(479001600))
	is.Equal(Factorial(20), uint64(2432902008176640000))
}

func TestRankPermutationExhaustive(t *testing.T) {
	is := is.New(t)
	for n := 0; n <= 8; n++ {
		p := make([]uint8, n)
		for r := uint64(0); r < Factorial(n); r++ {
			UnrankPermutation(r, p)
			is.NoErr(ValidatePermutation(p))
			is.Equal(RankPermutation(p), r)
		}
	}
}

func TestRankPermutationSampled(t *testing.T) {
	is := is.New(t)
	for _, n := range []int{12, 13, 16, 20} {
		p := make([]uint8, n)
		for range 20000 {
			r := frand.Uint64n(Factorial(n))
			UnrankPermutation(r, p)
			is.Equal(RankPermutation(p), r)
		}
	}
}

func TestRankPermutationOrder(t *testing.T) {
	is := is.New(t)
	is.Equal(RankPermutation([]uint8{0, 1, 2, 3}), uint64(0))
	is.Equal(RankPermutation([]uint8{0, 1, 3, 2}), uint64(1))
	is.Equal(RankPermutation([]uint8{1, 0, 2, 3}), uint64(6))
	is.Equal(RankPermutation([]uint8{3, 2, 1, 0}), uint64(23))
}

func TestRankPermutationPanicsOnBadInput(t *testing.T) {
	for _, p := range [][]uint8{
		{0, 0, 1},
		{0, 1, 3},
		{1, 2, 3},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic ranking %v", p)
				}
			}()
			RankPermutation(p)
		}()
	}
}

func TestUnrankPermutationPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	UnrankPermutation(Factorial(5), make([]uint8, 5))
}

func TestParity(t *testing.T) {
	is := is.New(t)
	is.Equal(Parity([]uint8{0, 1, 2, 3}), uint8(0))
	is.Equal(Parity([]uint8{1, 0, 2, 3}), uint8(1))
	is.Equal(Parity([]uint8{1, 2, 0, 3}), uint8(0))
	is.Equal(Parity([]uint8{1, 2, 3, 0}), uint8(1))
	// parity agrees with the sum of Lehmer digits
	p := make([]uint8, 7)
	for r := uint64(0); r < Factorial(7); r++ {
		UnrankPermutation(r, p)
		is.Equal(Parity(p), lehmerParity(p))
	}
}

func lehmerParity(p []uint8) uint8 {
	sum := 0
	for i := range p {
		for j := i + 1; j < len(p); j++ {
			if p[j] < p[i] {
				sum++
			}
		}
	}
	return uint8(sum & 1)
}

func TestEvenPermutationRoundTrip(t *testing.T) {
	is := is.New(t)
	for n := 2; n <= 9; n++ {
		p := make([]uint8, n)
		for r := uint64(0); r < EvenPermutationCount(n); r++ {
			UnrankEvenPermutation(r, p)
			is.Equal(Parity(p), uint8(0))
			is.Equal(RankEvenPermutation(p), r)
		}
	}
}

func TestEvenPermutationCoversAllEvens(t *testing.T) {
	is := is.New(t)
	n := 6
	p := make([]uint8, n)
	seen := map[uint64]bool{}
	for r := uint64(0); r < Factorial(n); r++ {
		UnrankPermutation(r, p)
		if Parity(p) != 0 {
			continue
		}
		er := RankEvenPermutation(p)
		is.True(er < EvenPermutationCount(n))
		is.True(!seen[er])
		seen[er] = true
		q := make([]uint8, n)
		UnrankEvenPermutation(er, q)
		is.Equal(q, p)
	}
	is.Equal(uint64(len(seen)), EvenPermutationCount(n))
}

func TestUnrankWithParity(t *testing.T) {
	is := is.New(t)
	even := make([]uint8, 9)
	odd := make([]uint8, 9)
	for range 5000 {
		r := frand.Uint64n(EvenPermutationCount(9))
		UnrankWithParity(r, 0, even)
		UnrankWithParity(r, 1, odd)
		is.Equal(Parity(even), uint8(0))
		is.Equal(Parity(odd), uint8(1))
		// the odd result is the even one with the last two slots exchanged
		is.Equal(even[:7], odd[:7])
		is.Equal(even[7], odd[8])
		is.Equal(even[8], odd[7])
		// and both rank back to r
		is.Equal(RankEvenPermutation(odd), r)
		is.Equal(RankEvenPermutation(even), r)
	}
}
