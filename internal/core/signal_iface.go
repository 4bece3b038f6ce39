package core

import (
	"errors"

	"github.com/dkeye/Relay/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is an encoded outbound event.
type Frame []byte

// Encoder turns a domain event into the wire representation.
type Encoder func(domain.Event) (Frame, error)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must not block: rooms call it while holding their lock.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
