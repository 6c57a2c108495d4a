package coord

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/samber/lo"

	"github.com/domino14/twisty/puzzle"
)

const (
	// MaxComponentSize bounds a component so its values fit a uint32 table
	// entry.
	MaxComponentSize = math.MaxUint32 + 1
	maxCoordinates   = 8
	maxComponents    = 16
)

// A decodeStep decodes one coordinate. Its inputs are explicit: the parity,
// and the state written by earlier steps.
type decodeStep func(r uint64, parity Parity, s *puzzle.State)

// A Component composes coordinates into one mixed-radix number, first
// coordinate most significant. The coordinates decode in the order listed;
// NewComponent rejects a list in which a coordinate precedes one it reads.
type Component struct {
	Name  string
	Index int

	coords []Coordinate
	radix  []uint64
	steps  []decodeStep
	sets   []int
	size   uint64
	// parityDependent is set when an EvenPermutation takes its parity from
	// another component.
	parityDependent bool
}

// NewComponent builds a component from its spec.
func NewComponent(p *puzzle.Puzzle, spec puzzle.ComponentSpec) (*Component, error) {
	if len(spec.Coordinates) == 0 || len(spec.Coordinates) > maxCoordinates {
		return nil, fmt.Errorf("component %s has %d coordinates", spec.Name, len(spec.Coordinates))
	}
	c := &Component{Name: spec.Name, size: 1}
	type key struct {
		set   int
		piece bool
	}
	// which vectors earlier coordinates have written
	written := map[key]bool{}
	for _, cs := range spec.Coordinates {
		co, err := newCoordinate(p, cs)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", spec.Name, err)
		}
		set := co.Set()
		piece := key{set, true}
		switch co.Kind() {
		case puzzle.KindOrientation, puzzle.KindFreeOrientation, puzzle.KindSelectedOrientation:
			if written[key{set, false}] {
				return nil, fmt.Errorf("component %s: orientation of %s ranked twice", spec.Name, cs.Set)
			}
			written[key{set, false}] = true
		default:
			if written[piece] {
				return nil, fmt.Errorf("component %s: pieces of %s ranked twice", spec.Name, cs.Set)
			}
			written[piece] = true
		}

		var step decodeStep
		switch co := co.(type) {
		case *Permutation:
			step = func(r uint64, _ Parity, s *puzzle.State) { co.Decode(r, s) }
		case *EvenPermutation:
			if cs.ParityFrom != "" {
				c.parityDependent = true
				step = func(r uint64, parity Parity, s *puzzle.State) { co.Decode(r, parity, s) }
			} else {
				step = func(r uint64, _ Parity, s *puzzle.State) { co.Decode(r, Even, s) }
			}
		case *Multiset:
			step = func(r uint64, _ Parity, s *puzzle.State) { co.Decode(r, s) }
		case *Orientation:
			step = func(r uint64, _ Parity, s *puzzle.State) { co.Decode(r, s) }
		case *FreeOrientation:
			step = func(r uint64, _ Parity, s *puzzle.State) { co.Decode(r, s) }
		case *SelectedOrientation:
			if !written[piece] {
				return nil, fmt.Errorf("component %s: selected orientation of %s must follow a coordinate ranking its pieces",
					spec.Name, cs.Set)
			}
			step = func(r uint64, _ Parity, s *puzzle.State) { co.Decode(r, s.Pieces(co.set), s) }
		}

		hi, low := bits.Mul64(c.size, co.Size())
		if hi != 0 || low > MaxComponentSize {
			return nil, fmt.Errorf("component %s is larger than %d", spec.Name, uint64(MaxComponentSize))
		}
		c.size = low
		c.coords = append(c.coords, co)
		c.radix = append(c.radix, co.Size())
		c.steps = append(c.steps, step)
		if !lo.Contains(c.sets, set) {
			c.sets = append(c.sets, set)
		}
	}
	return c, nil
}

// Size is the product of the coordinate sizes.
func (c *Component) Size() uint64 { return c.size }

func (c *Component) Coordinates() []Coordinate { return c.coords }

// Sets lists the piece sets the component reads and writes.
func (c *Component) Sets() []int { return c.sets }

// ParityDependent reports whether decoding needs the parity of another
// component.
func (c *Component) ParityDependent() bool { return c.parityDependent }

// Encode ranks s.
func (c *Component) Encode(s *puzzle.State) uint32 {
	var v uint64
	for i, co := range c.coords {
		v = v*c.radix[i] + co.Encode(s)
	}
	return uint32(v)
}

// Split writes the coordinate values of v into dst.
func (c *Component) Split(v uint32, dst []uint64) {
	r := uint64(v)
	if r >= c.size {
		panic(fmt.Sprintf("component %s value %d out of range [0,%d)", c.Name, v, c.size))
	}
	for i := len(c.coords) - 1; i >= 0; i-- {
		dst[i] = r % c.radix[i]
		r /= c.radix[i]
	}
}

// Join composes coordinate values.
func (c *Component) Join(vals []uint64) uint32 {
	var v uint64
	for i, x := range vals {
		if x >= c.radix[i] {
			panic(fmt.Sprintf("component %s coordinate %d value %d out of range [0,%d)", c.Name, i, x, c.radix[i]))
		}
		v = v*c.radix[i] + x
	}
	return uint32(v)
}

// Decode writes the sub-state of value v into s. parity is ignored unless
// the component is parity dependent.
func (c *Component) Decode(v uint32, parity Parity, s *puzzle.State) {
	var vals [maxCoordinates]uint64
	c.Split(v, vals[:len(c.coords)])
	for i, step := range c.steps {
		step(vals[i], parity, s)
	}
}

// Apply applies g to the sets of the component only.
func (c *Component) Apply(g *puzzle.Generator, s *puzzle.State) {
	for _, set := range c.sets {
		s.ApplyToSet(g, set)
	}
}
