package step

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/nkoval/plife/internal/life"
)

// Threaded runs the producer on a dedicated goroutine with bounded channels
// in both directions. Backpressure is natural: once bufferSize frames are
// waiting, the producer blocks on the hand-off, though it keeps servicing
// commands while blocked.
type Threaded struct {
	frames chan Frame
	cmds   chan Command
	done   chan struct{}

	round     atomic.Uint32
	closeOnce sync.Once
}

var _ Channel = (*Threaded)(nil)

// NewThreaded starts a producer for a width×height world. The seed fixes the
// producer's rng stream, making the whole run reproducible.
func NewThreaded(width, height float64, seed int64) *Threaded {
	t := &Threaded{
		frames: make(chan Frame, bufferSize),
		cmds:   make(chan Command, bufferSize),
		done:   make(chan struct{}),
	}
	u := life.NewUniverse(width, height, rand.New(rand.NewSource(seed)))
	go t.produce(u)
	return t
}

func (t *Threaded) produce(u *life.Universe) {
	var round uint32
	for {
		u.Step()
		frame := Frame{Round: round, Particles: u.Snapshot()}

		// Block until the frame is buffered, applying commands while
		// waiting. A frame computed before a reseed still goes out with its
		// old round; the consumer drops it by tag, so arrival order across
		// the round boundary does not matter.
		for sent := false; !sent; {
			select {
			case t.frames <- frame:
				sent = true
			case cmd := <-t.cmds:
				round = applyCommand(u, cmd, round)
			case <-t.done:
				return
			}
		}

	drain:
		for {
			select {
			case cmd := <-t.cmds:
				round = applyCommand(u, cmd, round)
			case <-t.done:
				return
			default:
				break drain
			}
		}
	}
}

func (t *Threaded) Next(ctx context.Context) (Frame, error) {
	for {
		select {
		case f := <-t.frames:
			if f.Round == t.round.Load() {
				return f, nil
			}
			// Stale round: skip and keep waiting.
		case <-t.done:
			return Frame{}, ErrClosed
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		}
	}
}

func (t *Threaded) Send(cmd Command) error {
	if cmd.Op == OpSeed && cmd.Settings != nil {
		if err := cmd.Settings.Validate(); err != nil {
			return err
		}
	}

	if cmd.BumpsRound() {
		t.round.Add(1)
		// Frames already buffered belong to the old round; clear them so
		// Next does not have to churn through them one by one.
	drain:
		for {
			select {
			case <-t.frames:
			default:
				break drain
			}
		}
	}

	select {
	case t.cmds <- cmd:
		return nil
	case <-t.done:
		return ErrClosed
	}
}

func (t *Threaded) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}
