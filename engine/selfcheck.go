package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/twisty/tables"
)

// SelfCheck samples random encoded states and verifies that decoding and
// re-encoding is the identity, and that every generator's table agrees with
// applying the generator to the decoded state.
func SelfCheck(set *tables.Set, samples int) error {
	codec := set.Codec()
	p := codec.Puzzle()
	s := p.NewState()
	cs, err := NewCoordState(set)
	if err != nil {
		return err
	}
	for range samples {
		x := frand.Uint64n(codec.Size())
		codec.Decode(x, s)
		if y := codec.Encode(s); y != x {
			return fmt.Errorf("state %d encodes back to %d", x, y)
		}
		for _, g := range p.Generators() {
			codec.Decode(x, s)
			s.Apply(g)
			cs.SetEncoded(x)
			cs.Apply(g.Index)
			if want, got := codec.Encode(s), cs.Encoded(); want != got {
				return fmt.Errorf("generator %s on state %d: tables give %d, pieces give %d", g.Name, x, got, want)
			}
			if want := codec.SourceParity(s); cs.Parity() != want {
				return fmt.Errorf("generator %s on state %d: tables give %s parity, pieces give %s",
					g.Name, x, cs.Parity(), want)
			}
		}
	}
	log.Info().Str("puzzle", p.Name()).Int("samples", samples).Msg("self-check-passed")
	return nil
}
