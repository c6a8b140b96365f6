package step

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/nkoval/plife/internal/life"
)

// Transport carries opaque serialized messages between the consumer and a
// producer running in an isolated context with no shared memory. Send and
// Recv must be callable from different goroutines.
type Transport interface {
	Send(data []byte) error
	Recv() ([]byte, error)
	Close() error
}

const (
	msgReady = "ready"
	msgFrame = "frame"
	msgCmd   = "command"
)

// message is the JSON envelope that round-trips frames and commands over a
// Transport.
type message struct {
	Type    string   `json:"type"`
	Frame   *Frame   `json:"frame,omitempty"`
	Command *Command `json:"command,omitempty"`
}

// Pipe returns a connected in-process transport pair. Closing either end
// disconnects both.
func Pipe() (Transport, Transport) {
	a := make(chan []byte, bufferSize)
	b := make(chan []byte, bufferSize)
	done := make(chan struct{})
	once := &sync.Once{}
	return &pipeEnd{in: a, out: b, done: done, once: once},
		&pipeEnd{in: b, out: a, done: done, once: once}
}

type pipeEnd struct {
	in   chan []byte
	out  chan []byte
	done chan struct{}
	once *sync.Once
}

func (p *pipeEnd) Send(data []byte) error {
	select {
	case p.out <- data:
		return nil
	case <-p.done:
		return ErrClosed
	}
}

func (p *pipeEnd) Recv() ([]byte, error) {
	select {
	case data := <-p.in:
		return data, nil
	case <-p.done:
		return nil, ErrClosed
	}
}

func (p *pipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

// ServeWorker runs the producer half of a pull channel until its peer is
// gone. It is the entry point for the isolated execution context: everything
// it touches arrives through the transport, and it only ticks the universe
// when a run request asks it to.
func ServeWorker(tr Transport, seed int64) error {
	u := life.NewUniverse(0, 0, rand.New(rand.NewSource(seed)))
	var round uint32

	ready, err := json.Marshal(message{Type: msgReady})
	if err != nil {
		return err
	}
	if err := tr.Send(ready); err != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}

	for {
		data, err := tr.Recv()
		if err != nil {
			// Disconnected peer: terminal, no retry.
			return nil
		}
		var m message
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("step: malformed worker message: %w", err)
		}
		if m.Type != msgCmd || m.Command == nil {
			continue
		}

		cmd := *m.Command
		if cmd.Op == OpSeed && (cmd.Settings == nil || cmd.Settings.Validate() != nil) {
			// A raw transport client bypasses the consumer-side validation
			// in Send. Drop the reseed whole: applying the round bump
			// without a new population would re-tag stale state as fresh.
			continue
		}
		if cmd.Op != OpRun {
			round = applyCommand(u, cmd, round)
			continue
		}

		ticks := cmd.Ticks
		if ticks < 1 {
			ticks = 1
		}
		for i := 0; i < ticks; i++ {
			u.Step()
			out, err := json.Marshal(message{
				Type:  msgFrame,
				Frame: &Frame{Round: round, Particles: u.Snapshot()},
			})
			if err != nil {
				return err
			}
			if err := tr.Send(out); err != nil {
				return nil
			}
		}
	}
}

// Pull is the consumer end of an isolated-worker deployment. Production is
// pull-based: every reset queues a batch of bufferSize tick requests and
// every consumed frame requests one more, so at most about bufferSize frames
// are ever in flight. Commands sent before the worker's readiness handshake
// are buffered locally and flushed, in order, once it arrives.
type Pull struct {
	tr Transport

	mu      sync.Mutex
	round   uint32
	buf     []Frame
	pending []Command
	ready   bool
	err     error

	notify    chan struct{}
	readyCh   chan struct{}
	doneCh    chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
}

var _ Channel = (*Pull)(nil)

// NewPull attaches a consumer to the transport and starts reading. It
// returns immediately; callers that must treat a failed handshake as a
// startup error follow up with WaitReady.
func NewPull(tr Transport) *Pull {
	p := &Pull{
		tr:      tr,
		notify:  make(chan struct{}, 1),
		readyCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go p.readLoop()
	return p
}

// NewWorker starts an in-process worker over a Pipe and returns the consumer
// end. The two sides still communicate only through serialized messages, so
// it behaves exactly like a genuinely isolated deployment.
func NewWorker(seed int64) *Pull {
	near, far := Pipe()
	go func() { _ = ServeWorker(far, seed) }()
	return NewPull(near)
}

func (p *Pull) readLoop() {
	for {
		data, err := p.tr.Recv()
		if err != nil {
			p.fail(err)
			return
		}
		var m message
		if err := json.Unmarshal(data, &m); err != nil {
			p.fail(fmt.Errorf("step: malformed frame message: %w", err))
			return
		}

		switch m.Type {
		case msgReady:
			// Flush buffered commands before publishing readiness. A Send
			// racing in mid-flush still sees ready == false and lands in
			// pending, where the next loop iteration picks it up, so no
			// command can overtake one queued before the handshake.
			for {
				p.mu.Lock()
				if len(p.pending) == 0 {
					p.ready = true
					p.mu.Unlock()
					close(p.readyCh)
					break
				}
				batch := p.pending
				p.pending = nil
				p.mu.Unlock()
				for _, cmd := range batch {
					if err := p.post(cmd); err != nil {
						p.fail(err)
						return
					}
				}
			}
		case msgFrame:
			if m.Frame == nil {
				continue
			}
			p.mu.Lock()
			p.buf = append(p.buf, *m.Frame)
			p.mu.Unlock()
			p.wake()
		}
	}
}

func (p *Pull) wake() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

func (p *Pull) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
	p.doneOnce.Do(func() { close(p.doneCh) })
	p.wake()
}

// WaitReady blocks until the worker's readiness handshake, turning a failed
// or missing handshake into a startup error.
func (p *Pull) WaitReady(ctx context.Context) error {
	select {
	case <-p.readyCh:
		return nil
	case <-p.doneCh:
		return fmt.Errorf("%w: %v", ErrNotReady, p.takeErr())
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
	}
}

func (p *Pull) takeErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	return ErrClosed
}

func (p *Pull) Next(ctx context.Context) (Frame, error) {
	for {
		p.mu.Lock()
		for len(p.buf) > 0 {
			f := p.buf[0]
			p.buf = p.buf[1:]
			if f.Round != p.round {
				// Stale round, keep scanning the buffer.
				continue
			}
			p.mu.Unlock()
			// Replace the frame just consumed so the pipeline stays primed.
			_ = p.Send(Run(1))
			return f, nil
		}
		err := p.err
		p.mu.Unlock()
		if err != nil {
			return Frame{}, err
		}

		select {
		case <-p.notify:
		case <-p.doneCh:
			return Frame{}, p.takeErr()
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		}
	}
}

func (p *Pull) Send(cmd Command) error {
	if cmd.Op == OpSeed && cmd.Settings != nil {
		if err := cmd.Settings.Validate(); err != nil {
			return err
		}
	}

	p.mu.Lock()
	if cmd.BumpsRound() {
		p.round++
		p.buf = p.buf[:0]
	}
	if !p.ready {
		p.pending = append(p.pending, cmd)
		if cmd.BumpsRound() {
			p.pending = append(p.pending, Run(bufferSize))
		}
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	if err := p.post(cmd); err != nil {
		return err
	}
	if cmd.BumpsRound() {
		// Prime the pipeline for the new round.
		return p.post(Run(bufferSize))
	}
	return nil
}

// RequestTicks asks the producer for n more ticks; consumers use it to match
// production to their buffer headroom.
func (p *Pull) RequestTicks(n int) error {
	return p.Send(Run(n))
}

func (p *Pull) post(cmd Command) error {
	data, err := json.Marshal(message{Type: msgCmd, Command: &cmd})
	if err != nil {
		return err
	}
	return p.tr.Send(data)
}

func (p *Pull) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		if p.err == nil {
			p.err = ErrClosed
		}
		p.mu.Unlock()
		p.doneOnce.Do(func() { close(p.doneCh) })
		_ = p.tr.Close()
	})
	return nil
}
