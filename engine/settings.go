package engine

import (
	"math"

	"github.com/domino14/twisty/coord"
)

// Settings describe a state space to the search engine.
type Settings struct {
	// StateSize bounds every encoded state: all lie in [0, StateSize).
	StateSize uint64
	// InitialStates are the depth 0 states.
	InitialStates []uint64
	// RootPattern is repeated over chunk indices to spread chunks across
	// storage roots.
	RootPattern []int
	// LogDepth is the depth from which discoveries are worth reporting.
	LogDepth int
}

// NewSettings returns the settings of codec's puzzle searched under the named
// metric, starting from solved.
func NewSettings(codec *coord.Codec, metric string) *Settings {
	p := codec.Puzzle()
	logDepth := p.LogDepth(metric)
	if logDepth < 0 {
		logDepth = math.MaxInt
	}
	return &Settings{
		StateSize:     codec.Size(),
		InitialStates: []uint64{codec.Encode(p.NewState())},
		RootPattern:   p.Definition().RootDirectories,
		LogDepth:      logDepth,
	}
}

// RootDirectoryIndex returns the storage root of a chunk.
func (s *Settings) RootDirectoryIndex(chunk uint64) int {
	if len(s.RootPattern) == 0 {
		return 0
	}
	return s.RootPattern[chunk%uint64(len(s.RootPattern))]
}
