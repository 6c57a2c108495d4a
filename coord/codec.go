package coord

import (
	"fmt"
	"math/bits"

	"github.com/domino14/twisty/combinatorics"
	"github.com/domino14/twisty/puzzle"
)

// A Codec composes a puzzle's components into one encoded state, first
// component most significant. It is immutable and safe for concurrent use;
// the puzzle.State passed to it is scratch owned by the caller.
type Codec struct {
	puzzle     *puzzle.Puzzle
	components []*Component
	order      []int
	size       uint64

	// component and set the parity is read from, or -1
	paritySource    int
	paritySourceSet int
}

// NewCodec builds the codec of p's declared components.
func NewCodec(p *puzzle.Puzzle) (*Codec, error) {
	def := p.Definition()
	if len(def.Components) == 0 || len(def.Components) > maxComponents {
		return nil, fmt.Errorf("puzzle %s declares %d components", p.Name(), len(def.Components))
	}
	c := &Codec{puzzle: p, size: 1, paritySource: -1, paritySourceSet: -1}
	parityFrom := ""
	for i, spec := range def.Components {
		comp, err := NewComponent(p, spec)
		if err != nil {
			return nil, fmt.Errorf("puzzle %s: %w", p.Name(), err)
		}
		comp.Index = i
		hi, lo := bits.Mul64(c.size, comp.Size())
		if hi != 0 {
			return nil, fmt.Errorf("puzzle %s: encoded state does not fit in 64 bits", p.Name())
		}
		c.size = lo
		c.components = append(c.components, comp)

		for _, cs := range spec.Coordinates {
			if cs.ParityFrom == "" {
				continue
			}
			if parityFrom != "" && parityFrom != cs.ParityFrom {
				return nil, fmt.Errorf("puzzle %s: parity taken from both %s and %s", p.Name(), parityFrom, cs.ParityFrom)
			}
			parityFrom = cs.ParityFrom
		}
	}
	if err := c.checkCoverage(); err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", p.Name(), err)
	}
	if parityFrom != "" {
		if err := c.resolveParity(parityFrom); err != nil {
			return nil, fmt.Errorf("puzzle %s: %w", p.Name(), err)
		}
	}
	if err := c.checkEvenPermutations(); err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", p.Name(), err)
	}

	// the parity source decodes first, the rest in declared order
	if c.paritySource >= 0 {
		c.order = append(c.order, c.paritySource)
	}
	for i := range c.components {
		if i != c.paritySource {
			c.order = append(c.order, i)
		}
	}
	return c, nil
}

// checkCoverage rejects a vector ranked by two components.
func (c *Codec) checkCoverage() error {
	type key struct {
		set   int
		piece bool
	}
	owner := map[key]string{}
	for _, comp := range c.components {
		for _, co := range comp.coords {
			k := key{co.Set(), true}
			switch co.Kind() {
			case puzzle.KindOrientation, puzzle.KindFreeOrientation, puzzle.KindSelectedOrientation:
				k.piece = false
			}
			if prev, ok := owner[k]; ok && prev != comp.Name {
				return fmt.Errorf("set %s is ranked by both %s and %s",
					c.puzzle.Sets()[co.Set()].Name, prev, comp.Name)
			}
			owner[k] = comp.Name
		}
	}
	return nil
}

func (c *Codec) resolveParity(setName string) error {
	set, ok := c.puzzle.SetIndex(setName)
	if !ok {
		return fmt.Errorf("parity taken from unknown set %q", setName)
	}
	for _, comp := range c.components {
		for _, co := range comp.coords {
			if co.Set() != set || co.Kind() == puzzle.KindOrientation ||
				co.Kind() == puzzle.KindFreeOrientation || co.Kind() == puzzle.KindSelectedOrientation {
				continue
			}
			if co.Kind() != puzzle.KindPermutation {
				return fmt.Errorf("parity source %s must be ranked as a permutation, not %s", setName, co.Kind())
			}
			if comp.parityDependent {
				return fmt.Errorf("component %s takes its parity from itself", comp.Name)
			}
			c.paritySource = comp.Index
			c.paritySourceSet = set
			return nil
		}
	}
	return fmt.Errorf("parity source %s is not ranked by any component", setName)
}

// checkEvenPermutations verifies that no generator can leave the range of an
// even permutation coordinate: without a parity source every generator must
// permute the set evenly, and with one it must change both parities
// together.
func (c *Codec) checkEvenPermutations() error {
	for _, comp := range c.components {
		for _, co := range comp.coords {
			if co.Kind() != puzzle.KindEvenPermutation {
				continue
			}
			set := co.Set()
			if combinatorics.Parity(c.puzzle.Sets()[set].Solved) != 0 {
				return fmt.Errorf("solved %s is an odd permutation", c.puzzle.Sets()[set].Name)
			}
			if comp.parityDependent && combinatorics.Parity(c.puzzle.Sets()[c.paritySourceSet].Solved) != 0 {
				return fmt.Errorf("solved %s is an odd permutation", c.puzzle.Sets()[c.paritySourceSet].Name)
			}
			for _, g := range c.puzzle.Generators() {
				want := uint8(0)
				if comp.parityDependent {
					want = g.Parity(c.paritySourceSet)
				}
				if g.Parity(set) != want {
					return fmt.Errorf("generator %s breaks the parity of %s", g.Name, c.puzzle.Sets()[set].Name)
				}
			}
		}
	}
	return nil
}

func (c *Codec) Puzzle() *puzzle.Puzzle { return c.puzzle }

// Size is STATE_SIZE, the number of representable encoded states.
func (c *Codec) Size() uint64 { return c.size }

func (c *Codec) Components() []*Component { return c.components }

// DecodeOrder lists component indices in the order Decode visits them.
func (c *Codec) DecodeOrder() []int { return c.order }

// ParitySource returns the component and piece set the parity of dependent
// components is read from.
func (c *Codec) ParitySource() (component, set int, ok bool) {
	return c.paritySource, c.paritySourceSet, c.paritySource >= 0
}

// SourceParity returns the permutation parity of the parity source in s.
func (c *Codec) SourceParity(s *puzzle.State) Parity {
	if c.paritySource < 0 {
		return Even
	}
	return Parity(combinatorics.Parity(s.Pieces(c.paritySourceSet)))
}

// Split writes the component values of x into dst.
func (c *Codec) Split(x uint64, dst []uint32) {
	if x >= c.size {
		panic(fmt.Sprintf("encoded state %d out of range [0,%d)", x, c.size))
	}
	for i := len(c.components) - 1; i >= 0; i-- {
		n := c.components[i].size
		dst[i] = uint32(x % n)
		x /= n
	}
}

// Join composes component values into an encoded state.
func (c *Codec) Join(vals []uint32) uint64 {
	var x uint64
	for i, v := range vals {
		x = x*c.components[i].size + uint64(v)
	}
	return x
}

// Encode ranks s.
func (c *Codec) Encode(s *puzzle.State) uint64 {
	var x uint64
	for _, comp := range c.components {
		x = x*comp.size + uint64(comp.Encode(s))
	}
	return x
}

// Decode writes the state with encoding x into s. Pieces no coordinate ranks
// keep whatever s held.
func (c *Codec) Decode(x uint64, s *puzzle.State) {
	var vals [maxComponents]uint32
	c.Split(x, vals[:len(c.components)])
	c.DecodeComponents(vals[:len(c.components)], s)
}

// DecodeComponents decodes already split component values.
func (c *Codec) DecodeComponents(vals []uint32, s *puzzle.State) {
	parity := Even
	for _, i := range c.order {
		c.components[i].Decode(vals[i], parity, s)
		if i == c.paritySource {
			parity = c.SourceParity(s)
		}
	}
}
