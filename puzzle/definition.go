package puzzle

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// A Definition is the declarative description of a puzzle, as read from YAML.
// It is compiled into a Puzzle before use.
type Definition struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Sets        []PieceSet      `yaml:"sets"`
	Generators  []GeneratorSpec `yaml:"generators"`
	Components  []ComponentSpec `yaml:"components"`
	// Metrics maps a metric name to the ordered move list an expander applies.
	Metrics map[string][]string `yaml:"metrics"`
	// RootDirectories is the cyclic pattern of storage partitions handed out
	// to search chunks.
	RootDirectories []int `yaml:"root-directories"`
	// LogDepth is the search depth from which discovered states are logged.
	// Negative means never.
	LogDepth int `yaml:"log-depth"`
	// LogDepths overrides LogDepth for the named metrics.
	LogDepths map[string]int `yaml:"log-depths"`
}

// A PieceSet is one kind of piece (edges, corners, centers).
type PieceSet struct {
	Name string `yaml:"name"`
	Size int    `yaml:"size"`
	// Modulus is the orientation modulus; 0 and 1 both mean unoriented.
	Modulus uint8 `yaml:"modulus"`
	// Solved holds the label in each slot of the solved state. Empty means
	// the identity. Repeated labels make pieces indistinguishable.
	Solved []uint8 `yaml:"solved"`
}

// A Cycle moves the piece in Slots[i] to Slots[i+1] (wrapping), adding
// Twist[i] to its orientation on the way.
type Cycle struct {
	Slots []int   `yaml:"slots"`
	Twist []uint8 `yaml:"twist"`
}

// A GeneratorSpec describes one legal move, either as disjoint cycles per
// piece set or as a product of previously declared generators applied left
// to right.
type GeneratorSpec struct {
	Name    string             `yaml:"name"`
	Cycles  map[string][]Cycle `yaml:"cycles"`
	Product []string           `yaml:"product"`
}

// Coordinate kinds.
const (
	KindPermutation         = "permutation"
	KindEvenPermutation     = "even-permutation"
	KindMultiset            = "multiset"
	KindOrientation         = "orientation"
	KindFreeOrientation     = "free-orientation"
	KindSelectedOrientation = "selected-orientation"
)

// A CoordinateSpec names one ranking of one piece set.
type CoordinateSpec struct {
	Kind string `yaml:"kind"`
	Set  string `yaml:"set"`
	// Labels lists the companion labels whose orientation a
	// selected-orientation coordinate stores.
	Labels []uint8 `yaml:"labels"`
	// ParityFrom names the piece set whose permutation parity fixes an
	// even-permutation coordinate. Empty means always even.
	ParityFrom string `yaml:"parity-from"`
}

// A ComponentSpec groups coordinates into one mixed-radix number. Coordinates
// are listed most significant first, which is also their decode order.
type ComponentSpec struct {
	Name        string           `yaml:"name"`
	Coordinates []CoordinateSpec `yaml:"coordinates"`
}

// ParseDefinition decodes a YAML puzzle definition.
func ParseDefinition(data []byte) (*Definition, error) {
	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("parsing puzzle definition: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("puzzle definition has no name")
	}
	return def, nil
}
