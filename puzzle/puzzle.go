// Package puzzle compiles declarative puzzle definitions into generators and
// provides the piece-vector State those generators act on.
package puzzle

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/twisty/combinatorics"
)

//go:embed definitions/*.yaml
var builtinFS embed.FS

// DefaultMetric is the metric used when none is named.
const DefaultMetric = "default"

// A Puzzle is a compiled, immutable Definition. It is safe for concurrent use.
type Puzzle struct {
	def        *Definition
	generators []*Generator
	genByName  map[string]*Generator
	setIndex   map[string]int
}

// Compile validates def and builds its generators.
func Compile(def *Definition) (*Puzzle, error) {
	if len(def.Sets) == 0 {
		return nil, fmt.Errorf("puzzle %s has no piece sets", def.Name)
	}
	if len(def.Generators) == 0 {
		return nil, fmt.Errorf("puzzle %s has no generators", def.Name)
	}
	p := &Puzzle{
		def:       def,
		genByName: map[string]*Generator{},
		setIndex:  map[string]int{},
	}
	for i := range def.Sets {
		set := &def.Sets[i]
		if err := normalizeSet(set); err != nil {
			return nil, fmt.Errorf("puzzle %s: %w", def.Name, err)
		}
		if _, ok := p.setIndex[set.Name]; ok {
			return nil, fmt.Errorf("puzzle %s: duplicate piece set %q", def.Name, set.Name)
		}
		p.setIndex[set.Name] = i
	}
	for _, spec := range def.Generators {
		g, err := p.compileGenerator(spec)
		if err != nil {
			return nil, fmt.Errorf("puzzle %s: generator %q: %w", def.Name, spec.Name, err)
		}
		g.Index = len(p.generators)
		p.generators = append(p.generators, g)
		p.genByName[g.Name] = g
	}
	if _, ok := def.Metrics[DefaultMetric]; !ok && len(def.Metrics) > 0 {
		// the alphabetically first metric stands in for a missing default
		names := lo.Keys(def.Metrics)
		sort.Strings(names)
		def.Metrics[DefaultMetric] = def.Metrics[names[0]]
		if d, ok := def.LogDepths[names[0]]; ok {
			def.LogDepths[DefaultMetric] = d
		}
	}
	for name := range def.Metrics {
		if _, err := p.Metric(name); err != nil {
			return nil, fmt.Errorf("puzzle %s: metric %q: %w", def.Name, name, err)
		}
	}
	for name := range def.LogDepths {
		if _, ok := def.Metrics[name]; !ok {
			return nil, fmt.Errorf("puzzle %s: log depth for unknown metric %q", def.Name, name)
		}
	}
	return p, nil
}

func normalizeSet(set *PieceSet) error {
	if set.Name == "" {
		return fmt.Errorf("piece set has no name")
	}
	if set.Size < 1 || set.Size > combinatorics.MaxPieces {
		return fmt.Errorf("piece set %s: size %d outside [1,%d]", set.Name, set.Size, combinatorics.MaxPieces)
	}
	if set.Modulus == 0 {
		set.Modulus = 1
	}
	if set.Modulus > 32 {
		return fmt.Errorf("piece set %s: modulus %d too large", set.Name, set.Modulus)
	}
	if len(set.Solved) == 0 {
		set.Solved = make([]uint8, set.Size)
		for i := range set.Solved {
			set.Solved[i] = uint8(i)
		}
		return nil
	}
	if len(set.Solved) != set.Size {
		return fmt.Errorf("piece set %s: %d solved labels for %d pieces", set.Name, len(set.Solved), set.Size)
	}
	// labels must be 0..m-1 with every label used
	maxLabel := lo.Max(set.Solved)
	for l := uint8(0); l <= maxLabel; l++ {
		if !lo.Contains(set.Solved, l) {
			return fmt.Errorf("piece set %s: label %d unused", set.Name, l)
		}
	}
	return nil
}

func (p *Puzzle) compileGenerator(spec GeneratorSpec) (*Generator, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("generator has no name")
	}
	if _, ok := p.genByName[spec.Name]; ok {
		return nil, fmt.Errorf("duplicate generator")
	}
	if len(spec.Cycles) > 0 && len(spec.Product) > 0 {
		return nil, fmt.Errorf("generator has both cycles and a product")
	}
	g := identityGenerator(spec.Name, p.def.Sets)
	if len(spec.Product) > 0 {
		for _, mv := range spec.Product {
			m, err := p.ParseMove(mv)
			if err != nil {
				return nil, err
			}
			for range m.Power {
				g = g.then(m.Generator)
			}
		}
		g.Name = spec.Name
	}
	for setName, cycles := range spec.Cycles {
		s, ok := p.setIndex[setName]
		if !ok {
			return nil, fmt.Errorf("unknown piece set %q", setName)
		}
		touched := make([]bool, p.def.Sets[s].Size)
		for _, c := range cycles {
			if err := g.addCycle(s, c, touched); err != nil {
				return nil, fmt.Errorf("set %s: %w", setName, err)
			}
		}
	}
	if g.isIdentity() {
		return nil, fmt.Errorf("generator is the identity")
	}
	if err := g.computeOrder(); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *Puzzle) Name() string        { return p.def.Name }
func (p *Puzzle) Description() string { return p.def.Description }

// Definition returns the definition p was compiled from. Callers must not
// modify it.
func (p *Puzzle) Definition() *Definition { return p.def }

func (p *Puzzle) Sets() []PieceSet { return p.def.Sets }

// SetIndex returns the index of the named piece set.
func (p *Puzzle) SetIndex(name string) (int, bool) {
	i, ok := p.setIndex[name]
	return i, ok
}

func (p *Puzzle) Generators() []*Generator { return p.generators }

// Generator returns the named generator, or nil.
func (p *Puzzle) Generator(name string) *Generator { return p.genByName[name] }

// MetricNames returns the puzzle's metric names in sorted order.
func (p *Puzzle) MetricNames() []string {
	names := lo.Keys(p.def.Metrics)
	sort.Strings(names)
	return names
}

// Metric resolves the named move list.
func (p *Puzzle) Metric(name string) ([]Move, error) {
	list, ok := p.def.Metrics[name]
	if !ok {
		return nil, fmt.Errorf("puzzle %s has no metric %q", p.def.Name, name)
	}
	moves := make([]Move, len(list))
	for i, mv := range list {
		m, err := p.ParseMove(mv)
		if err != nil {
			return nil, err
		}
		moves[i] = m
	}
	return moves, nil
}

// LogDepth is the depth from which states found under the named metric are
// worth logging. Negative means never.
func (p *Puzzle) LogDepth(metric string) int {
	if d, ok := p.def.LogDepths[metric]; ok {
		return d
	}
	return p.def.LogDepth
}

// BuiltinNames lists the puzzles embedded in the binary.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("definitions")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Load compiles the named built-in puzzle.
func Load(name string) (*Puzzle, error) {
	data, err := builtinFS.ReadFile(path.Join("definitions", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("no built-in puzzle %q (have %s)", name,
			strings.Join(BuiltinNames(), ", "))
	}
	return compileBytes(data)
}

// LoadFile compiles a puzzle definition from a YAML file.
func LoadFile(filename string) (*Puzzle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return compileBytes(data)
}

func compileBytes(data []byte) (*Puzzle, error) {
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	return Compile(def)
}
