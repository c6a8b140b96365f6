// Package step connects a continuously running simulation producer to a
// rendering consumer that drains frames at its own cadence. Frames flow one
// way, commands the other, and a round tag on every frame lets the consumer
// discard output computed before the latest reseed.
//
// Two deployments implement the same Channel interface: Threaded runs the
// producer on a goroutine with bounded channels in both directions, and Pull
// drives a producer behind a serialized message transport where the consumer
// requests ticks explicitly.
package step

import (
	"context"
	"errors"
)

// bufferSize bounds the frames buffered between producer and consumer, and
// sizes the tick-request batches in pull mode.
const bufferSize = 10

var (
	// ErrClosed is returned once the peer is gone. There is no retry or
	// reconnect; the affected loop should exit.
	ErrClosed = errors.New("step: channel closed")

	// ErrNotReady is returned when a pull worker fails its readiness
	// handshake.
	ErrNotReady = errors.New("step: worker failed readiness handshake")
)

// Channel is the consumer's handle on a running simulation.
type Channel interface {
	// Next blocks until a frame of the current round is available. Frames
	// tagged with a stale round are skipped, never delivered.
	Next(ctx context.Context) (Frame, error)

	// Send hands a command to the producer. Fire-and-forget: effects become
	// visible in subsequent frames and are never confirmed synchronously.
	Send(cmd Command) error

	// Close drops the consumer end. The producer notices on its next
	// operation and terminates.
	Close() error
}
