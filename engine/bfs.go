package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MaxSearchStates bounds the state spaces Search will hold a visited bitset
// for.
const MaxSearchStates = 1 << 33

var ErrStateSpaceTooLarge = errors.New("state space too large for an in-memory search")

// A SearchResult counts the states first reached at each depth.
type SearchResult struct {
	Depths  []uint64
	Total   uint64
	Elapsed time.Duration
}

// Search runs a breadth-first search over the whole space reachable from
// settings.InitialStates, reporting every new state to cb in increasing
// order within each depth. It exists to validate expanders on small puzzles;
// large spaces belong to an external disk-based engine.
func Search(ctx context.Context, exp *Expander, settings *Settings, cb Callback, threads int) (*SearchResult, error) {
	if settings.StateSize > MaxSearchStates {
		return nil, fmt.Errorf("%w: %d states", ErrStateSpaceTooLarge, settings.StateSize)
	}
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	start := time.Now()
	visited := make([]uint64, (settings.StateSize+63)/64)
	mark := func(x uint64) bool {
		mask := uint64(1) << (x % 64)
		return atomic.OrUint64(&visited[x/64], mask)&mask == 0
	}

	frontier := make([]uint64, 0, len(settings.InitialStates))
	for _, x := range settings.InitialStates {
		if x >= settings.StateSize {
			return nil, fmt.Errorf("initial state %d out of range [0,%d)", x, settings.StateSize)
		}
		if mark(x) {
			frontier = append(frontier, x)
		}
	}
	slices.Sort(frontier)

	res := &SearchResult{}
	for depth := 0; len(frontier) > 0; depth++ {
		if cb != nil {
			for _, x := range frontier {
				if err := cb.NewState(depth, x); err != nil {
					return nil, err
				}
			}
		}
		res.Depths = append(res.Depths, uint64(len(frontier)))
		res.Total += uint64(len(frontier))
		log.Debug().Int("depth", depth).Int("states", len(frontier)).
			Uint64("total", res.Total).Msg("bfs-depth")

		next, err := expandFrontier(ctx, exp, frontier, mark, threads)
		if err != nil {
			return nil, err
		}
		frontier = next
	}
	res.Elapsed = time.Since(start)
	log.Info().Uint64("states", res.Total).Int("depth", len(res.Depths)-1).
		Dur("elapsed", res.Elapsed).Msg("bfs-done")
	return res, nil
}

func expandFrontier(ctx context.Context, exp *Expander, frontier []uint64, mark func(uint64) bool,
	threads int) ([]uint64, error) {

	chunk := (len(frontier) + threads - 1) / threads
	found := make([][]uint64, threads)
	g, ctx := errgroup.WithContext(ctx)
	for t := range threads {
		lo := t * chunk
		hi := min(lo+chunk, len(frontier))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			out := make([]uint64, exp.Width())
			var local []uint64
			for i, x := range frontier[lo:hi] {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				exp.Expand(x, out)
				for _, y := range out {
					if mark(y) {
						local = append(local, y)
					}
				}
			}
			found[t] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	next := slices.Concat(found...)
	slices.Sort(next)
	return next, nil
}
