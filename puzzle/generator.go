package puzzle

import (
	"fmt"

	"github.com/domino14/twisty/combinatorics"
)

// MaxOrder bounds the order of any generator.
const MaxOrder = 1 << 12

// A Generator is a compiled move. For every piece set, the piece arriving in
// slot i comes from slot perm[s][i] and gains twist[s][i] orientation.
type Generator struct {
	Name  string
	Index int
	Order int

	perm  [][]uint8
	twist [][]uint8
	mods  []uint8
}

func identityGenerator(name string, sets []PieceSet) *Generator {
	g := &Generator{
		Name:  name,
		perm:  make([][]uint8, len(sets)),
		twist: make([][]uint8, len(sets)),
		mods:  make([]uint8, len(sets)),
	}
	for s, set := range sets {
		g.perm[s] = make([]uint8, set.Size)
		g.twist[s] = make([]uint8, set.Size)
		for i := range g.perm[s] {
			g.perm[s][i] = uint8(i)
		}
		g.mods[s] = set.Modulus
	}
	return g
}

// addCycle folds a cycle into an identity-initialized generator. Slots must
// not have been touched by an earlier cycle of the same set.
func (g *Generator) addCycle(set int, c Cycle, touched []bool) error {
	n := len(g.perm[set])
	if len(c.Twist) != 0 && len(c.Twist) != len(c.Slots) {
		return fmt.Errorf("cycle %v has %d twists", c.Slots, len(c.Twist))
	}
	for i, slot := range c.Slots {
		if slot < 0 || slot >= n {
			return fmt.Errorf("slot %d outside [0,%d)", slot, n)
		}
		if touched[slot] {
			return fmt.Errorf("slot %d appears in more than one cycle", slot)
		}
		touched[slot] = true
		next := c.Slots[(i+1)%len(c.Slots)]
		g.perm[set][next] = uint8(slot)
		if len(c.Twist) != 0 {
			if c.Twist[i] >= g.mods[set] && c.Twist[i] != 0 {
				return fmt.Errorf("twist %d outside Z_%d", c.Twist[i], g.mods[set])
			}
			g.twist[set][next] = c.Twist[i]
		}
	}
	return nil
}

// then returns the generator that applies g and then h.
func (g *Generator) then(h *Generator) *Generator {
	out := &Generator{
		perm:  make([][]uint8, len(g.perm)),
		twist: make([][]uint8, len(g.perm)),
		mods:  g.mods,
	}
	for s := range g.perm {
		n := len(g.perm[s])
		out.perm[s] = make([]uint8, n)
		out.twist[s] = make([]uint8, n)
		for i := range n {
			j := h.perm[s][i]
			out.perm[s][i] = g.perm[s][j]
			out.twist[s][i] = (g.twist[s][j] + h.twist[s][i]) % g.mods[s]
		}
	}
	return out
}

func (g *Generator) isIdentity() bool {
	for s := range g.perm {
		for i, p := range g.perm[s] {
			if int(p) != i || g.twist[s][i] != 0 {
				return false
			}
		}
	}
	return true
}

func (g *Generator) computeOrder() error {
	power := g
	for order := 1; order <= MaxOrder; order++ {
		if power.isIdentity() {
			g.Order = order
			return nil
		}
		power = power.then(g)
	}
	return fmt.Errorf("generator %s has order above %d", g.Name, MaxOrder)
}

// Touches reports whether g moves or twists the piece in slot of set.
func (g *Generator) Touches(set, slot int) bool {
	return int(g.perm[set][slot]) != slot || g.twist[set][slot] != 0
}

// Parity returns the parity of g's permutation of set.
func (g *Generator) Parity(set int) uint8 {
	return combinatorics.Parity(g.perm[set])
}

// TwistSum returns the total orientation g adds to set, mod the set's
// modulus.
func (g *Generator) TwistSum(set int) uint8 {
	total := 0
	for _, t := range g.twist[set] {
		total += int(t)
	}
	return uint8(total % int(g.mods[set]))
}
