package engine

import (
	"fmt"

	"github.com/domino14/twisty/puzzle"
	"github.com/domino14/twisty/tables"
)

// An Expander maps an encoded state to the encoded states one move away, for
// a fixed ordered move list. It is immutable and safe for concurrent use.
type Expander struct {
	tables *tables.Set
	moves  []puzzle.Move
	metric string
}

// NewExpander returns the expander of the named metric.
func NewExpander(set *tables.Set, metric string) (*Expander, error) {
	p := set.Codec().Puzzle()
	moves, err := p.Metric(metric)
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("metric %s of %s has no moves", metric, p.Name())
	}
	if len(set.Codec().Components()) > maxComponents {
		return nil, fmt.Errorf("puzzle %s has more than %d components", p.Name(), maxComponents)
	}
	return &Expander{tables: set, moves: moves, metric: metric}, nil
}

// Width is the number of states Expand produces.
func (e *Expander) Width() int { return len(e.moves) }

func (e *Expander) Moves() []puzzle.Move { return e.moves }

func (e *Expander) Metric() string { return e.metric }

// Expand writes into out, in move order, the encoding of node after each move.
// out must have room for Width states.
func (e *Expander) Expand(node uint64, out []uint64) {
	codec := e.tables.Codec()
	n := len(codec.Components())
	var start, cur [maxComponents]uint32
	codec.Split(node, start[:n])
	parity := e.tables.Parity(start[:n])
	for i, m := range e.moves {
		cur = start
		p := parity
		for range m.Power {
			p = e.tables.Apply(cur[:n], p, m.Generator.Index)
		}
		out[i] = codec.Join(cur[:n])
	}
}
