// Package engine is the surface a breadth-first search engine drives: an
// expansion function over encoded states, discovery callbacks, and the
// settings that describe the state space.
package engine

import (
	"fmt"

	"github.com/domino14/twisty/coord"
	"github.com/domino14/twisty/puzzle"
	"github.com/domino14/twisty/tables"
)

// maxComponents bounds the components of a puzzle the engine can expand
// without allocating.
const maxComponents = 16

// A CoordState is a puzzle state held as component values plus the parity of
// the parity source. Moves are table lookups; the piece vectors are never
// materialized.
type CoordState struct {
	tables *tables.Set
	vals   [maxComponents]uint32
	n      int
	parity coord.Parity
}

// NewCoordState returns the solved state.
func NewCoordState(set *tables.Set) (*CoordState, error) {
	codec := set.Codec()
	if len(codec.Components()) > maxComponents {
		return nil, fmt.Errorf("puzzle %s has more than %d components", codec.Puzzle().Name(), maxComponents)
	}
	cs := &CoordState{tables: set, n: len(codec.Components())}
	cs.SetEncoded(codec.Encode(codec.Puzzle().NewState()))
	return cs, nil
}

// SetEncoded loads the state with encoding x.
func (cs *CoordState) SetEncoded(x uint64) {
	cs.tables.Codec().Split(x, cs.vals[:cs.n])
	cs.parity = cs.tables.Parity(cs.vals[:cs.n])
}

// Encoded returns the encoding of the state.
func (cs *CoordState) Encoded() uint64 {
	return cs.tables.Codec().Join(cs.vals[:cs.n])
}

// Values returns the component values. The slice aliases the state.
func (cs *CoordState) Values() []uint32 { return cs.vals[:cs.n] }

func (cs *CoordState) Parity() coord.Parity { return cs.parity }

// Apply applies one generator.
func (cs *CoordState) Apply(generator int) {
	cs.parity = cs.tables.Apply(cs.vals[:cs.n], cs.parity, generator)
}

func (cs *CoordState) ApplyMove(m puzzle.Move) {
	for range m.Power {
		cs.Apply(m.Generator.Index)
	}
}

// ApplyAlg applies a whitespace-separated move sequence. Nothing is applied
// if any move fails to resolve.
func (cs *CoordState) ApplyAlg(alg string) error {
	moves, err := cs.tables.Codec().Puzzle().ParseAlg(alg)
	if err != nil {
		return err
	}
	for _, m := range moves {
		cs.ApplyMove(m)
	}
	return nil
}

func (cs *CoordState) CopyFrom(o *CoordState) {
	cs.tables = o.tables
	cs.vals = o.vals
	cs.n = o.n
	cs.parity = o.parity
}

func (cs *CoordState) Clone() *CoordState {
	c := &CoordState{}
	c.CopyFrom(cs)
	return c
}

// Materialize decodes the state into s.
func (cs *CoordState) Materialize(s *puzzle.State) {
	cs.tables.Codec().DecodeComponents(cs.vals[:cs.n], s)
}
