package engine

import (
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/twisty/coord"
)

// A Callback is told about every state the search discovers, once, at the
// depth it was first reached. It does no deduplication of its own.
type Callback interface {
	NewState(depth int, state uint64) error
}

// Callbacks fans a discovery out to several callbacks, stopping at the first
// error.
type Callbacks []Callback

func (cbs Callbacks) NewState(depth int, state uint64) error {
	for _, cb := range cbs {
		if err := cb.NewState(depth, state); err != nil {
			return err
		}
	}
	return nil
}

// LogCallback logs states discovered at MinDepth or deeper. With a Codec it
// also logs the decoded piece vectors.
type LogCallback struct {
	MinDepth int
	Codec    *coord.Codec
	Level    zerolog.Level
}

func (l *LogCallback) NewState(depth int, state uint64) error {
	if depth < l.MinDepth {
		return nil
	}
	ev := log.WithLevel(l.Level).Int("depth", depth).Uint64("state", state)
	if l.Codec != nil && ev.Enabled() {
		s := l.Codec.Puzzle().NewState()
		l.Codec.Decode(state, s)
		ev = ev.Stringer("pieces", s)
	}
	ev.Msg("new-state")
	return nil
}

// publisher is the part of a NATS connection the callback uses.
type publisher interface {
	Publish(subj string, data []byte) error
}

// NATSCallback publishes a StateMessage for every state discovered at
// MinDepth or deeper. A publish is tried Attempts times, at least once.
type NATSCallback struct {
	MinDepth int
	Subject  string
	Puzzle   string
	Attempts uint
	Delay    time.Duration

	pub  publisher
	conn *nats.Conn
}

// NewNATSCallback connects to the NATS server at url. Messages carry the
// puzzle name so several searches can share a subject.
func NewNATSCallback(url, subject, puzzleName string, minDepth int) (*NATSCallback, error) {
	nc, err := nats.Connect(url, nats.Name("twisty"))
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", url).Str("subject", subject).Int("min-depth", minDepth).
		Msg("connected-to-nats")
	return &NATSCallback{
		MinDepth: minDepth,
		Subject:  subject,
		Puzzle:   puzzleName,
		Attempts: 5,
		Delay:    100 * time.Millisecond,
		pub:      nc,
		conn:     nc,
	}, nil
}

func (n *NATSCallback) NewState(depth int, state uint64) error {
	if depth < n.MinDepth {
		return nil
	}
	msg := (&StateMessage{Depth: depth, State: state, Puzzle: n.Puzzle}).Marshal()
	return retry.Do(
		func() error {
			return n.pub.Publish(n.Subject, msg)
		},
		// zero attempts would retry forever
		retry.Attempts(max(n.Attempts, 1)),
		retry.Delay(n.Delay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(attempt uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", attempt).Uint64("state", state).
				Msg("publish-failed-try-again")
			return retry.BackOffDelay(attempt, err, config)
		}),
	)
}

// Close flushes pending messages and closes the connection.
func (n *NATSCallback) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}
