package tables

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/twisty/coord"
	"github.com/domino14/twisty/puzzle"
)

// how many values a worker handles between cancellation checks
const checkInterval = 1 << 16

// A Builder constructs transposition tables. Each table is split into
// contiguous ranges, one per thread, and every worker decodes into its own
// scratch state, so workers share nothing but the destination array.
type Builder struct {
	Threads int
}

func (b *Builder) threads() int {
	if b.Threads < 1 {
		return runtime.NumCPU()
	}
	return b.Threads
}

// Build constructs every table of codec.
func (b *Builder) Build(ctx context.Context, codec *coord.Codec) (*Set, error) {
	p := codec.Puzzle()
	gens := p.Generators()
	comps := codec.Components()
	set := &Set{
		codec:  codec,
		tables: make([][]*TranspositionTable, len(gens)),
		flips:  make([]coord.Parity, len(gens)),
	}
	start := time.Now()
	log.Info().Str("puzzle", p.Name()).Int("generators", len(gens)).
		Int("components", len(comps)).Int("threads", b.threads()).
		Uint64("estimated-bytes", EstimateBytes(codec)).Msg("building-tables")

	_, paritySet, hasParity := codec.ParitySource()
	for gi, g := range gens {
		if hasParity {
			set.flips[gi] = coord.Parity(g.Parity(paritySet))
		}
		set.tables[gi] = make([]*TranspositionTable, len(comps))
		for ci := range comps {
			t, err := b.BuildTable(ctx, codec, ci, gi)
			if err != nil {
				return nil, err
			}
			set.tables[gi][ci] = t
		}
	}
	if hasParity {
		bits, err := b.buildParity(ctx, codec)
		if err != nil {
			return nil, err
		}
		set.parity = bits
	}
	log.Info().Str("puzzle", p.Name()).Uint64("bytes", set.Bytes()).
		Str("checksum", hex64(set.Checksum())).
		Dur("elapsed", time.Since(start)).Msg("tables-built")
	return set, nil
}

// BuildTable constructs the table of one component and generator.
func (b *Builder) BuildTable(ctx context.Context, codec *coord.Codec, component, generator int) (*TranspositionTable, error) {
	comp := codec.Components()[component]
	g := codec.Puzzle().Generators()[generator]
	start := time.Now()
	t := &TranspositionTable{Component: component, Generator: generator}

	var err error
	t.even, err = b.fill(ctx, codec.Puzzle(), comp, g, coord.Even)
	if err != nil {
		return nil, err
	}
	if NeedsOddTable(codec, component, generator) {
		t.odd, err = b.fill(ctx, codec.Puzzle(), comp, g, coord.Odd)
		if err != nil {
			return nil, err
		}
	} else {
		t.odd = t.even
	}
	log.Debug().Str("component", comp.Name).Str("generator", g.Name).
		Int("size", t.Len()).Bool("split", t.Split()).
		Str("checksum", hex64(t.Checksum())).
		Dur("elapsed", time.Since(start)).Msg("table-built")
	return t, nil
}

func (b *Builder) fill(ctx context.Context, p *puzzle.Puzzle, comp *coord.Component, g *puzzle.Generator,
	parity coord.Parity) ([]uint32, error) {

	n := comp.Size()
	dst := make([]uint32, n)
	eg, ctx := errgroup.WithContext(ctx)
	chunk := (n + uint64(b.threads()) - 1) / uint64(b.threads())
	for lo := uint64(0); lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			s := p.NewState()
			for v := lo; v < hi; v++ {
				if (v-lo)%checkInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				comp.Decode(uint32(v), parity, s)
				comp.Apply(g, s)
				dst[v] = comp.Encode(s)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

// buildParity records the permutation parity of every value of the parity
// source component. Workers own whole 64-value words.
func (b *Builder) buildParity(ctx context.Context, codec *coord.Codec) ([]uint64, error) {
	ci, _, _ := codec.ParitySource()
	comp := codec.Components()[ci]
	n := comp.Size()
	words := make([]uint64, (n+63)/64)
	eg, ctx := errgroup.WithContext(ctx)
	chunk := (uint64(len(words)) + uint64(b.threads()) - 1) / uint64(b.threads())
	for lo := uint64(0); lo < uint64(len(words)); lo += chunk {
		hi := min(lo+chunk, uint64(len(words)))
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := codec.Puzzle().NewState()
			for v := lo * 64; v < min(hi*64, n); v++ {
				comp.Decode(uint32(v), coord.Even, s)
				if codec.SourceParity(s) == coord.Odd {
					words[v/64] |= 1 << (v % 64)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return words, nil
}

// NeedsOddTable reports whether the table of a component and generator
// depends on parity. Only a parity dependent component can, and only if the
// generator moves one of the two slots an odd decode exchanges.
func NeedsOddTable(codec *coord.Codec, component, generator int) bool {
	comp := codec.Components()[component]
	if !comp.ParityDependent() {
		return false
	}
	p := codec.Puzzle()
	g := p.Generators()[generator]
	for _, co := range comp.Coordinates() {
		if _, ok := co.(*coord.EvenPermutation); !ok {
			continue
		}
		n := p.Sets()[co.Set()].Size
		if g.Touches(co.Set(), n-2) || g.Touches(co.Set(), n-1) {
			return true
		}
	}
	return false
}
