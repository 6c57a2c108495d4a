package puzzle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownMove is returned when a move name does not resolve to a
// generator power.
var ErrUnknownMove = errors.New("unknown move")

// A Move is a generator applied Power times.
type Move struct {
	Name      string
	Generator *Generator
	Power     int
}

func (m Move) String() string { return m.Name }

// ParseMove resolves a move name. A generator name alone is one application;
// a trailing number repeats it and a trailing ' inverts, so that for an
// order-4 U, U2 is two turns, U' three and U2' two. Generator names are
// matched exactly first, so a generator may itself end in a digit.
func (p *Puzzle) ParseMove(name string) (Move, error) {
	if g, ok := p.genByName[name]; ok {
		return Move{Name: name, Generator: g, Power: 1}, nil
	}
	base := name
	inverse := strings.HasSuffix(base, "'")
	if inverse {
		base = strings.TrimSuffix(base, "'")
	}
	power := 1
	if g, ok := p.genByName[base]; ok {
		return makeMove(name, g, power, inverse)
	}
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	if i == len(base) || i == 0 {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, name)
	}
	g, ok := p.genByName[base[:i]]
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, name)
	}
	power, err := strconv.Atoi(base[i:])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, name)
	}
	return makeMove(name, g, power, inverse)
}

func makeMove(name string, g *Generator, power int, inverse bool) (Move, error) {
	power %= g.Order
	if power == 0 {
		return Move{}, fmt.Errorf("%w: %q is the identity", ErrUnknownMove, name)
	}
	if inverse {
		power = g.Order - power
	}
	return Move{Name: name, Generator: g, Power: power}, nil
}

// ParseAlg resolves a whitespace-separated move sequence.
func (p *Puzzle) ParseAlg(alg string) ([]Move, error) {
	fields := strings.Fields(alg)
	moves := make([]Move, 0, len(fields))
	for _, f := range fields {
		m, err := p.ParseMove(f)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
