// Package coord ranks puzzle sub-states as dense coordinates, groups them into
// mixed-radix components and composes the components into a single encoded
// state.
package coord

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/domino14/twisty/combinatorics"
	"github.com/domino14/twisty/puzzle"
)

// Parity of a permutation.
type Parity uint8

const (
	Even Parity = 0
	Odd  Parity = 1
)

func (p Parity) String() string {
	if p == Odd {
		return "odd"
	}
	return "even"
}

// A Coordinate ranks one vector of one piece set. Decoding is kind-specific,
// because some kinds need inputs produced by other coordinates: an
// EvenPermutation needs the parity and a SelectedOrientation needs the labels
// of its companion vector.
type Coordinate interface {
	Kind() string
	Set() int
	Size() uint64
	Encode(s *puzzle.State) uint64
}

// Permutation ranks the piece vector of a set of distinct pieces.
type Permutation struct {
	set, n int
}

func (c *Permutation) Kind() string { return puzzle.KindPermutation }
func (c *Permutation) Set() int     { return c.set }
func (c *Permutation) Size() uint64 { return combinatorics.Factorial(c.n) }

func (c *Permutation) Encode(s *puzzle.State) uint64 {
	return combinatorics.RankPermutation(s.Pieces(c.set))
}

func (c *Permutation) Decode(r uint64, s *puzzle.State) {
	combinatorics.UnrankPermutation(r, s.Pieces(c.set))
}

// EvenPermutation ranks the piece vector of a set whose parity is known from
// elsewhere. An odd vector ranks like its even partner, the vector with the
// last two slots exchanged.
type EvenPermutation struct {
	set, n int
}

func (c *EvenPermutation) Kind() string { return puzzle.KindEvenPermutation }
func (c *EvenPermutation) Set() int     { return c.set }
func (c *EvenPermutation) Size() uint64 { return combinatorics.EvenPermutationCount(c.n) }

func (c *EvenPermutation) Encode(s *puzzle.State) uint64 {
	return combinatorics.RankEvenPermutation(s.Pieces(c.set))
}

// Decode writes the permutation of rank r with the given parity.
func (c *EvenPermutation) Decode(r uint64, parity Parity, s *puzzle.State) {
	combinatorics.UnrankWithParity(r, uint8(parity), s.Pieces(c.set))
}

// Multiset ranks a piece vector in which pieces sharing a label are
// interchangeable.
type Multiset struct {
	set    int
	groups []int
}

func (c *Multiset) Kind() string { return puzzle.KindMultiset }
func (c *Multiset) Set() int     { return c.set }
func (c *Multiset) Size() uint64 { return combinatorics.MultisetCount(c.groups) }

func (c *Multiset) Encode(s *puzzle.State) uint64 {
	return combinatorics.RankMultiset(s.Pieces(c.set), c.groups)
}

func (c *Multiset) Decode(r uint64, s *puzzle.State) {
	combinatorics.UnrankMultiset(r, c.groups, s.Pieces(c.set))
}

// Orientation ranks an orientation vector whose sum is 0 mod k.
type Orientation struct {
	set, n int
	k      uint8
}

func (c *Orientation) Kind() string { return puzzle.KindOrientation }
func (c *Orientation) Set() int     { return c.set }
func (c *Orientation) Size() uint64 { return combinatorics.OrientationCount(c.n, c.k) }

func (c *Orientation) Encode(s *puzzle.State) uint64 {
	return combinatorics.RankOrientation(s.Orientation(c.set), c.k)
}

func (c *Orientation) Decode(r uint64, s *puzzle.State) {
	combinatorics.UnrankOrientation(r, c.k, s.Orientation(c.set))
}

// FreeOrientation ranks an orientation vector with no sum invariant. A set of
// one piece with a free orientation is a counter.
type FreeOrientation struct {
	set, n int
	k      uint8
}

func (c *FreeOrientation) Kind() string { return puzzle.KindFreeOrientation }
func (c *FreeOrientation) Set() int     { return c.set }
func (c *FreeOrientation) Size() uint64 { return combinatorics.Power(c.k, c.n) }

func (c *FreeOrientation) Encode(s *puzzle.State) uint64 {
	return combinatorics.RankFreeOrientation(s.Orientation(c.set), c.k)
}

func (c *FreeOrientation) Decode(r uint64, s *puzzle.State) {
	combinatorics.UnrankFreeOrientation(r, c.k, s.Orientation(c.set))
}

// SelectedOrientation ranks the orientations of only those pieces whose label
// is selected. Which slots those are depends on the set's piece vector, so it
// must be decoded before this coordinate.
type SelectedOrientation struct {
	set      int
	k        uint8
	selected combinatorics.LabelSet
	count    int
}

func (c *SelectedOrientation) Kind() string { return puzzle.KindSelectedOrientation }
func (c *SelectedOrientation) Set() int     { return c.set }
func (c *SelectedOrientation) Size() uint64 { return combinatorics.Power(c.k, c.count) }

func (c *SelectedOrientation) Encode(s *puzzle.State) uint64 {
	return combinatorics.RankSelectedOrientation(s.Orientation(c.set), c.k, s.Pieces(c.set), c.selected)
}

// Decode writes the selected orientations into the slots whose companion
// label is selected and zeroes the rest.
func (c *SelectedOrientation) Decode(r uint64, companion []uint8, s *puzzle.State) {
	combinatorics.UnrankSelectedOrientation(r, c.k, companion, c.selected, s.Orientation(c.set))
}

// newCoordinate builds the coordinate described by spec.
func newCoordinate(p *puzzle.Puzzle, spec puzzle.CoordinateSpec) (Coordinate, error) {
	set, ok := p.SetIndex(spec.Set)
	if !ok {
		return nil, fmt.Errorf("unknown piece set %q", spec.Set)
	}
	ps := p.Sets()[set]
	distinct := len(lo.Uniq(ps.Solved)) == ps.Size
	if spec.ParityFrom != "" && spec.Kind != puzzle.KindEvenPermutation {
		return nil, fmt.Errorf("%s coordinate on %s cannot take a parity", spec.Kind, spec.Set)
	}
	if len(spec.Labels) > 0 && spec.Kind != puzzle.KindSelectedOrientation {
		return nil, fmt.Errorf("%s coordinate on %s cannot select labels", spec.Kind, spec.Set)
	}

	switch spec.Kind {
	case puzzle.KindPermutation, puzzle.KindEvenPermutation:
		if !distinct {
			return nil, fmt.Errorf("%s coordinate on %s needs distinct pieces", spec.Kind, spec.Set)
		}
		if spec.Kind == puzzle.KindPermutation {
			return &Permutation{set: set, n: ps.Size}, nil
		}
		if ps.Size < 2 {
			return nil, fmt.Errorf("even permutation of %d pieces", ps.Size)
		}
		return &EvenPermutation{set: set, n: ps.Size}, nil

	case puzzle.KindMultiset:
		groups := make([]int, lo.Max(ps.Solved)+1)
		for _, l := range ps.Solved {
			groups[l]++
		}
		return &Multiset{set: set, groups: groups}, nil

	case puzzle.KindOrientation, puzzle.KindFreeOrientation:
		if ps.Modulus < 2 {
			return nil, fmt.Errorf("%s coordinate on unoriented set %s", spec.Kind, spec.Set)
		}
		if spec.Kind == puzzle.KindFreeOrientation {
			return &FreeOrientation{set: set, n: ps.Size, k: ps.Modulus}, nil
		}
		for _, g := range p.Generators() {
			if g.TwistSum(set) != 0 {
				return nil, fmt.Errorf("generator %s breaks the orientation sum of %s", g.Name, spec.Set)
			}
		}
		return &Orientation{set: set, n: ps.Size, k: ps.Modulus}, nil

	case puzzle.KindSelectedOrientation:
		if ps.Modulus < 2 {
			return nil, fmt.Errorf("%s coordinate on unoriented set %s", spec.Kind, spec.Set)
		}
		if len(spec.Labels) == 0 {
			return nil, fmt.Errorf("selected orientation on %s selects no labels", spec.Set)
		}
		sel := combinatorics.NewLabelSet(spec.Labels...)
		return &SelectedOrientation{
			set:      set,
			k:        ps.Modulus,
			selected: sel,
			count:    combinatorics.CountSelected(ps.Solved, sel),
		}, nil
	}
	return nil, fmt.Errorf("unknown coordinate kind %q", spec.Kind)
}
