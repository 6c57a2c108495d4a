package tables

import (
	"errors"
	"fmt"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/twisty/coord"
)

var ErrInsufficientMemory = errors.New("insufficient memory for tables")

// EstimateBytes returns the memory Build will allocate for codec.
func EstimateBytes(codec *coord.Codec) uint64 {
	var total uint64
	for gi := range codec.Puzzle().Generators() {
		for ci, comp := range codec.Components() {
			n := comp.Size() * entrySize
			if NeedsOddTable(codec, ci, gi) {
				n *= 2
			}
			total += n
		}
	}
	if ci, _, ok := codec.ParitySource(); ok {
		total += (codec.Components()[ci].Size() + 63) / 64 * 8
	}
	return total
}

// CheckMemory returns ErrInsufficientMemory if the tables of codec would take
// more than fraction of the system memory. It passes when the system memory
// cannot be determined.
func CheckMemory(codec *coord.Codec, fraction float64) error {
	totalMem := memory.TotalMemory()
	need := EstimateBytes(codec)
	allowed := uint64(fraction * float64(totalMem))
	log.Debug().Uint64("estimated-bytes", need).
		Uint64("allowed-bytes", allowed).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("table-memory")
	if totalMem == 0 {
		return nil
	}
	if need > allowed {
		return fmt.Errorf("%w: need %d bytes, allowed %d (%.2f of %d)",
			ErrInsufficientMemory, need, allowed, fraction, totalMem)
	}
	return nil
}

func hex64(x uint64) string {
	return fmt.Sprintf("%016x", x)
}
