package puzzle

import (
	"fmt"
	"strings"

	"github.com/domino14/twisty/combinatorics"
)

// A State is the piece-vector representation of a puzzle configuration: for
// every piece set, the label in each slot and that piece's orientation.
// A State is owned by one goroutine at a time.
type State struct {
	puzzle *Puzzle
	pieces [][]uint8
	ori    [][]uint8
}

// NewState returns the solved state of p.
func (p *Puzzle) NewState() *State {
	s := &State{
		puzzle: p,
		pieces: make([][]uint8, len(p.def.Sets)),
		ori:    make([][]uint8, len(p.def.Sets)),
	}
	for i, set := range p.def.Sets {
		s.pieces[i] = make([]uint8, set.Size)
		s.ori[i] = make([]uint8, set.Size)
	}
	s.Reset()
	return s
}

func (s *State) Puzzle() *Puzzle { return s.puzzle }

// Pieces returns the mutable label vector of a piece set.
func (s *State) Pieces(set int) []uint8 { return s.pieces[set] }

// Orientation returns the mutable orientation vector of a piece set.
func (s *State) Orientation(set int) []uint8 { return s.ori[set] }

// Reset restores the solved state.
func (s *State) Reset() {
	for i, set := range s.puzzle.def.Sets {
		copy(s.pieces[i], set.Solved)
		clear(s.ori[i])
	}
}

func (s *State) CopyFrom(o *State) {
	for i := range s.pieces {
		copy(s.pieces[i], o.pieces[i])
		copy(s.ori[i], o.ori[i])
	}
}

func (s *State) Clone() *State {
	c := s.puzzle.NewState()
	c.CopyFrom(s)
	return c
}

func (s *State) Equal(o *State) bool {
	for i := range s.pieces {
		if string(s.pieces[i]) != string(o.pieces[i]) || string(s.ori[i]) != string(o.ori[i]) {
			return false
		}
	}
	return true
}

func (s *State) IsSolved() bool {
	for i, set := range s.puzzle.def.Sets {
		if string(s.pieces[i]) != string(set.Solved) {
			return false
		}
		for _, o := range s.ori[i] {
			if o != 0 {
				return false
			}
		}
	}
	return true
}

// Apply applies g to every piece set.
func (s *State) Apply(g *Generator) {
	for set := range s.pieces {
		s.ApplyToSet(g, set)
	}
}

// ApplyToSet applies g to a single piece set, leaving the others alone.
func (s *State) ApplyToSet(g *Generator, set int) {
	var pbuf, obuf [combinatorics.MaxPieces]uint8
	pieces, ori := s.pieces[set], s.ori[set]
	n := len(pieces)
	copy(pbuf[:n], pieces)
	copy(obuf[:n], ori)
	perm, twist, k := g.perm[set], g.twist[set], g.mods[set]
	for i := range n {
		from := perm[i]
		pieces[i] = pbuf[from]
		ori[i] = (obuf[from] + twist[i]) % k
	}
}

// ApplyMove applies m.Generator m.Power times.
func (s *State) ApplyMove(m Move) {
	for range m.Power {
		s.Apply(m.Generator)
	}
}

// Move applies a named move.
func (s *State) Move(name string) error {
	m, err := s.puzzle.ParseMove(name)
	if err != nil {
		return err
	}
	s.ApplyMove(m)
	return nil
}

// ApplyAlg applies a whitespace-separated move sequence. Nothing is applied
// if any move fails to resolve.
func (s *State) ApplyAlg(alg string) error {
	moves, err := s.puzzle.ParseAlg(alg)
	if err != nil {
		return err
	}
	for _, m := range moves {
		s.ApplyMove(m)
	}
	return nil
}

func (s *State) String() string {
	var sb strings.Builder
	for i, set := range s.puzzle.def.Sets {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%v", set.Name, s.pieces[i])
		if set.Modulus > 1 {
			fmt.Fprintf(&sb, "/%v", s.ori[i])
		}
	}
	return sb.String()
}
