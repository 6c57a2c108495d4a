package coord

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"

	"github.com/domino14/twisty/puzzle"
)

func mustCodec(t *testing.T, name string) *Codec {
	t.Helper()
	p, err := puzzle.Load(name)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCodec(p)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// decodeInOrder runs the decode steps of c in the given order.
func decodeInOrder(c *Component, v uint32, parity Parity, s *puzzle.State, order []int) {
	vals := make([]uint64, len(c.coords))
	c.Split(v, vals)
	for _, i := range order {
		c.steps[i](vals[i], parity, s)
	}
}

func TestStateSizes(t *testing.T) {
	is := is.New(t)
	for name, size := range map[string]uint64{
		"3x3-edges":       479001600,
		"3x3-U-F2-R":      666639590400,
		"megaminx-U-R":    7999675084800,
		"4x4-U-2R":        274337280000,
		"3x3-2-color-UFR": 965667225600,
		"3x3-2-color-UFB": 116397388800,
		"2x2-U-R":         174960,
	} {
		is.Equal(mustCodec(t, name).Size(), size)
	}
}

func TestComponentSizes(t *testing.T) {
	c := mustCodec(t, "3x3-2-color-UFR")
	sizes := []uint64{}
	for _, comp := range c.Components() {
		sizes = append(sizes, comp.Size())
	}
	assert.Equal(t, []uint64{1182720, 816480}, sizes)
}

func TestComponentSets(t *testing.T) {
	is := is.New(t)
	for _, name := range []string{"3x3-2-color-UFR", "3x3-2-color-UFB"} {
		c := mustCodec(t, name)
		p := c.Puzzle()
		sizes := []uint64{}
		for _, comp := range c.Components() {
			sizes = append(sizes, comp.Size())
			// two coordinates over one piece set
			is.Equal(len(comp.Coordinates()), 2)
			set, ok := p.SetIndex(comp.Name)
			is.True(ok)
			is.Equal(comp.Sets(), []int{set})
		}
		if name == "3x3-2-color-UFB" {
			assert.Equal(t, []uint64{760320, 153090}, sizes)
		}
	}
}

func TestSolvedEncoding(t *testing.T) {
	is := is.New(t)
	c := mustCodec(t, "3x3-U-F2-R")
	s := c.Puzzle().NewState()
	is.Equal(c.Encode(s), uint64(0))
	d := c.Puzzle().NewState()
	is.NoErr(d.ApplyAlg("R U F2"))
	c.Decode(0, d)
	is.True(d.IsSolved())
}

func TestCodecRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, name := range puzzle.BuiltinNames() {
		c := mustCodec(t, name)
		s := c.Puzzle().NewState()
		for range 20000 {
			x := frand.Uint64n(c.Size())
			c.Decode(x, s)
			is.Equal(c.Encode(s), x)
		}
	}
}

func TestCodecRoundTripExhaustive(t *testing.T) {
	is := is.New(t)
	c := mustCodec(t, "2x2-U-R")
	s := c.Puzzle().NewState()
	for x := range c.Size() {
		c.Decode(x, s)
		is.Equal(c.Encode(s), x)
	}
}

func TestEncodeReachableStates(t *testing.T) {
	// decoding a reachable state's encoding gives the state back
	is := is.New(t)
	for _, name := range []string{"3x3-U-F2-R", "megaminx-U-R", "2x2-U-R", "3x3-edges"} {
		c := mustCodec(t, name)
		p := c.Puzzle()
		gens := p.Generators()
		s := p.NewState()
		d := p.NewState()
		for range 2000 {
			s.Apply(gens[frand.Intn(len(gens))])
			c.Decode(c.Encode(s), d)
			is.True(d.Equal(s))
		}
	}
}

func TestSplitJoin(t *testing.T) {
	is := is.New(t)
	c := mustCodec(t, "megaminx-U-R")
	vals := make([]uint32, len(c.Components()))
	for range 10000 {
		x := frand.Uint64n(c.Size())
		c.Split(x, vals)
		is.Equal(c.Join(vals), x)
	}
	comp := c.Components()[0]
	coords := make([]uint64, 2)
	comp.Split(20160*2187-1, coords)
	assert.Equal(t, []uint64{20159, 2186}, coords)
	is.Equal(comp.Join(coords), uint32(20160*2187-1))
}

func TestDecodeOutOfRangePanics(t *testing.T) {
	c := mustCodec(t, "2x2-U-R")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	c.Decode(c.Size(), c.Puzzle().NewState())
}

func TestParitySourceDecodesFirst(t *testing.T) {
	is := is.New(t)
	c := mustCodec(t, "3x3-U-F2-R")
	comp, set, ok := c.ParitySource()
	is.True(ok)
	is.Equal(comp, 1)
	corners, _ := c.Puzzle().SetIndex("corners")
	is.Equal(set, corners)
	assert.Equal(t, []int{1, 0}, c.DecodeOrder())
	is.True(c.Components()[0].ParityDependent())
	is.True(!c.Components()[1].ParityDependent())

	_, _, ok = mustCodec(t, "megaminx-U-R").ParitySource()
	is.True(!ok)
}

// decodeWithOrder mirrors DecodeComponents with a caller-chosen order.
func decodeWithOrder(c *Codec, x uint64, s *puzzle.State, order []int) {
	vals := make([]uint32, len(c.components))
	c.Split(x, vals)
	parity := Even
	for _, i := range order {
		c.components[i].Decode(vals[i], parity, s)
		if i == c.paritySource {
			parity = c.SourceParity(s)
		}
	}
}

func TestParityOrderIsLoadBearing(t *testing.T) {
	is := is.New(t)
	c := mustCodec(t, "3x3-U-F2-R")
	p := c.Puzzle()
	s := p.NewState()
	// one quarter turn leaves both edges and corners odd
	is.NoErr(s.Move("U"))
	x := c.Encode(s)

	good := p.NewState()
	decodeWithOrder(c, x, good, c.DecodeOrder())
	is.True(good.Equal(s))

	bad := p.NewState()
	decodeWithOrder(c, x, bad, []int{0, 1})
	is.True(!bad.Equal(s))
	edges, _ := p.SetIndex("edges")
	// the wrong parity exchanges the last two edge slots
	is.Equal(bad.Pieces(edges)[7], s.Pieces(edges)[8])
	is.Equal(bad.Pieces(edges)[8], s.Pieces(edges)[7])
}

func TestSelectedOrientationOrderIsLoadBearing(t *testing.T) {
	is := is.New(t)
	c := mustCodec(t, "3x3-2-color-UFR")
	p := c.Puzzle()
	edges, _ := p.SetIndex("edges")
	comp := c.Components()[0]

	src := p.NewState()
	copy(src.Pieces(edges), []uint8{1, 0, 1, 0, 1, 2, 1, 0, 2, 2, 1, 1})
	ms := comp.Coordinates()[0].Encode(src)
	v := comp.Join([]uint64{ms, 32})

	good := p.NewState()
	comp.Decode(v, Even, good)
	is.Equal(good.Pieces(edges), src.Pieces(edges))
	is.Equal(good.Orientation(edges)[0], uint8(1))
	is.Equal(comp.Encode(good), v)

	// orientations first: they land on the slots of the stale solved labels
	bad := p.NewState()
	decodeInOrder(comp, v, Even, bad, []int{1, 0})
	is.Equal(bad.Pieces(edges), src.Pieces(edges))
	is.Equal(bad.Orientation(edges)[0], uint8(0))
	is.Equal(bad.Orientation(edges)[1], uint8(1))
	is.True(comp.Encode(bad) != v)
}

func TestCodecErrors(t *testing.T) {
	for name, src := range map[string]string{
		"selected before pieces": `
name: bad
sets: [{name: e, size: 4, modulus: 2, solved: [0, 0, 1, 1]}]
generators:
  - {name: X, cycles: {e: [{slots: [0, 1, 2, 3], twist: [1, 1, 0, 0]}]}}
components:
  - name: e
    coordinates:
      - {kind: selected-orientation, set: e, labels: [1]}
      - {kind: multiset, set: e}`,
		"odd generator on even permutation": `
name: bad
sets: [{name: e, size: 4}]
generators:
  - {name: X, cycles: {e: [{slots: [0, 1, 2, 3]}]}}
components:
  - {name: e, coordinates: [{kind: even-permutation, set: e}]}`,
		"orientation sum broken": `
name: bad
sets: [{name: c, size: 4, modulus: 3}]
generators:
  - {name: X, cycles: {c: [{slots: [0, 1], twist: [1, 0]}]}}
components:
  - {name: c, coordinates: [{kind: orientation, set: c}]}`,
		"parity from multiset": `
name: bad
sets:
  - {name: e, size: 4}
  - {name: c, size: 4, solved: [0, 0, 1, 1]}
generators:
  - {name: X, cycles: {e: [{slots: [0, 1]}], c: [{slots: [0, 2]}]}}
components:
  - {name: e, coordinates: [{kind: even-permutation, set: e, parity-from: c}]}
  - {name: c, coordinates: [{kind: multiset, set: c}]}`,
		"parity generators disagree": `
name: bad
sets:
  - {name: e, size: 4}
  - {name: c, size: 4}
generators:
  - {name: X, cycles: {e: [{slots: [0, 1]}], c: [{slots: [0, 1, 2]}]}}
components:
  - {name: e, coordinates: [{kind: even-permutation, set: e, parity-from: c}]}
  - {name: c, coordinates: [{kind: permutation, set: c}]}`,
		"permutation of interchangeable pieces": `
name: bad
sets: [{name: c, size: 4, solved: [0, 0, 1, 1]}]
generators:
  - {name: X, cycles: {c: [{slots: [0, 2]}]}}
components:
  - {name: c, coordinates: [{kind: permutation, set: c}]}`,
		"set ranked twice": `
name: bad
sets: [{name: c, size: 4}]
generators:
  - {name: X, cycles: {c: [{slots: [0, 2]}]}}
components:
  - {name: a, coordinates: [{kind: permutation, set: c}]}
  - {name: b, coordinates: [{kind: permutation, set: c}]}`,
		"overflows 64 bits": `
name: bad
sets:
  - {name: a, size: 12, modulus: 3}
  - {name: b, size: 12}
generators:
  - {name: X, cycles: {a: [{slots: [0, 1]}], b: [{slots: [0, 1]}]}}
components:
  - {name: a, coordinates: [{kind: permutation, set: a}]}
  - {name: b, coordinates: [{kind: permutation, set: b}]}
  - {name: a2, coordinates: [{kind: free-orientation, set: a}]}`,
		"component too large": `
name: bad
sets: [{name: a, size: 14}]
generators:
  - {name: X, cycles: {a: [{slots: [0, 1]}]}}
components:
  - {name: a, coordinates: [{kind: permutation, set: a}]}`,
		"unknown kind": `
name: bad
sets: [{name: a, size: 4}]
generators:
  - {name: X, cycles: {a: [{slots: [0, 1]}]}}
components:
  - {name: a, coordinates: [{kind: wreath, set: a}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			def, err := puzzle.ParseDefinition([]byte(src))
			if err != nil {
				t.Fatal(err)
			}
			p, err := puzzle.Compile(def)
			if err != nil {
				t.Fatal(err)
			}
			_, err = NewCodec(p)
			assert.Error(t, err)
		})
	}
}

func TestEdgeQuarterTurnScenario(t *testing.T) {
	is := is.New(t)
	c := mustCodec(t, "3x3-edges")
	p := c.Puzzle()
	s := p.NewState()
	solved := c.Encode(s)

	seen := []uint64{}
	for range 4 {
		is.NoErr(s.Move("U"))
		seen = append(seen, c.Encode(s))
	}
	is.Equal(seen[3], solved)
	for _, x := range seen[:3] {
		is.True(x != solved)
	}

	half, err := p.ParseMove("U2")
	is.NoErr(err)
	is.Equal(half.Power, 2)
	s.Reset()
	s.ApplyMove(half)
	is.True(c.Encode(s) != solved)
	is.Equal(c.Encode(s), seen[1])
	s.ApplyMove(half)
	is.Equal(c.Encode(s), solved)
}
