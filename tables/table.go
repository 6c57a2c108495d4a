// Package tables builds and holds the transposition tables of a codec: for
// every (generator, component) pair, an array mapping a component value to
// its value after the generator.
package tables

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash"

	"github.com/domino14/twisty/coord"
)

// entrySize is the size of one table entry in bytes.
const entrySize = 4

// A TranspositionTable maps a component value to the value after one
// generator. A parity dependent component may need a second array for odd
// states; when the generator leaves the parity swap slots alone both parities
// share one array.
type TranspositionTable struct {
	Component int
	Generator int

	even []uint32
	odd  []uint32
}

// Lookup returns the value reached from v, a value of the given parity.
func (t *TranspositionTable) Lookup(v uint32, parity coord.Parity) uint32 {
	if parity == coord.Odd {
		return t.odd[v]
	}
	return t.even[v]
}

// Split reports whether odd states have their own array.
func (t *TranspositionTable) Split() bool {
	return len(t.odd) > 0 && &t.odd[0] != &t.even[0]
}

// Len is the number of component values.
func (t *TranspositionTable) Len() int { return len(t.even) }

// Bytes is the memory held by the table.
func (t *TranspositionTable) Bytes() uint64 {
	if t.Split() {
		return 2 * entrySize * uint64(len(t.even))
	}
	return entrySize * uint64(len(t.even))
}

// Checksum hashes the table contents. Two builds from the same definition
// have the same checksum.
func (t *TranspositionTable) Checksum() uint64 {
	h := xxhash.New()
	writeEntries(h, t.even)
	if t.Split() {
		writeEntries(h, t.odd)
	}
	return h.Sum64()
}

func writeEntries(h io.Writer, entries []uint32) {
	var buf [4096]byte
	for len(entries) > 0 {
		n := min(len(entries), len(buf)/entrySize)
		for i, e := range entries[:n] {
			binary.LittleEndian.PutUint32(buf[i*entrySize:], e)
		}
		h.Write(buf[:n*entrySize])
		entries = entries[n:]
	}
}

// A Set holds every table of a codec together with what the coordinate level
// needs to track parity without decoding. It is immutable once built and safe
// for concurrent use.
type Set struct {
	codec *coord.Codec
	// tables[generator][component]
	tables [][]*TranspositionTable
	// flips[generator] is the parity change of the parity source
	flips []coord.Parity
	// parity of each value of the parity source component, one bit per value
	parity []uint64
}

func (s *Set) Codec() *coord.Codec { return s.codec }

func (s *Set) Table(generator, component int) *TranspositionTable {
	return s.tables[generator][component]
}

// Flip returns how generator changes the parity.
func (s *Set) Flip(generator int) coord.Parity { return s.flips[generator] }

// Parity returns the parity of the state with component values vals.
func (s *Set) Parity(vals []uint32) coord.Parity {
	comp, _, ok := s.codec.ParitySource()
	if !ok {
		return coord.Even
	}
	v := vals[comp]
	return coord.Parity(s.parity[v/64] >> (v % 64) & 1)
}

// Apply moves vals, a state of the given parity, by generator and returns the
// new parity. Every lookup uses the parity from before the move.
func (s *Set) Apply(vals []uint32, parity coord.Parity, generator int) coord.Parity {
	for c, t := range s.tables[generator] {
		vals[c] = t.Lookup(vals[c], parity)
	}
	return parity ^ s.flips[generator]
}

// Bytes is the memory held by all tables.
func (s *Set) Bytes() uint64 {
	total := uint64(len(s.parity)) * 8
	for _, row := range s.tables {
		for _, t := range row {
			total += t.Bytes()
		}
	}
	return total
}

// Checksum combines the checksums of every table in a fixed order.
func (s *Set) Checksum() uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, row := range s.tables {
		for _, t := range row {
			binary.LittleEndian.PutUint64(buf[:], t.Checksum())
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}

func (s *Set) String() string {
	return fmt.Sprintf("<tables %s: %d generators x %d components, %d bytes>",
		s.codec.Puzzle().Name(), len(s.tables), len(s.codec.Components()), s.Bytes())
}
