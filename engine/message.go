package engine

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// A StateMessage is the payload published for a discovered state. It is
// written in the protobuf wire format of
//
//	message StateMessage {
//	  uint32 depth = 1;
//	  uint64 state = 2;
//	  string puzzle = 3;
//	}
type StateMessage struct {
	Depth  int
	State  uint64
	Puzzle string
}

const (
	fieldDepth  protowire.Number = 1
	fieldState  protowire.Number = 2
	fieldPuzzle protowire.Number = 3
)

// Marshal encodes m. Zero-valued fields are omitted, as proto3 does.
func (m *StateMessage) Marshal() []byte {
	b := make([]byte, 0, 16+len(m.Puzzle))
	if m.Depth != 0 {
		b = protowire.AppendTag(b, fieldDepth, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Depth))
	}
	if m.State != 0 {
		b = protowire.AppendTag(b, fieldState, protowire.VarintType)
		b = protowire.AppendVarint(b, m.State)
	}
	if m.Puzzle != "" {
		b = protowire.AppendTag(b, fieldPuzzle, protowire.BytesType)
		b = protowire.AppendString(b, m.Puzzle)
	}
	return b
}

// Unmarshal decodes b into m. Unknown fields are skipped.
func (m *StateMessage) Unmarshal(b []byte) error {
	*m = StateMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("state message: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldDepth && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			m.Depth = int(v)
		case num == fieldState && typ == protowire.VarintType:
			m.State, n = protowire.ConsumeVarint(b)
		case num == fieldPuzzle && typ == protowire.BytesType:
			m.Puzzle, n = protowire.ConsumeString(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("state message field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
