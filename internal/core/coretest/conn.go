// Package coretest provides an in-memory core.SignalConnection for tests.
package coretest

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
)

// Received is a decoded outbound frame of any type.
type Received struct {
	Type     string           `json:"type"`
	Name     string           `json:"name"`
	Message  domain.Message   `json:"message"`
	Messages []domain.Message `json:"messages"`
	Error    string           `json:"error"`
}

// Conn records every frame it accepts. SetFull makes TrySend fail with
// core.ErrBackpressure.
type Conn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func NewConn() *Conn { return &Conn{} }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) SetFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

func (c *Conn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *Conn) Received(t testing.TB) []Received {
	t.Helper()
	frames := c.Frames()
	out := make([]Received, 0, len(frames))
	for _, f := range frames {
		var r Received
		if err := json.Unmarshal(f, &r); err != nil {
			t.Fatalf("decode frame %s: %v", f, err)
		}
		out = append(out, r)
	}
	return out
}

// OfType keeps the received frames whose type is typ.
func (c *Conn) OfType(t testing.TB, typ domain.EventKind) []Received {
	t.Helper()
	var out []Received
	for _, r := range c.Received(t) {
		if r.Type == string(typ) {
			out = append(out, r)
		}
	}
	return out
}
