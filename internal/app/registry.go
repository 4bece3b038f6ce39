package app

import (
	"context"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// SessionState is the gateway state of one connection.
type SessionState int

const (
	StateConnected SessionState = iota
	StateJoined
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	default:
		return "disconnected"
	}
}

type sessionEntry struct {
	State  SessionState
	RoomID domain.RoomID
	Name   string
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

// Session is a copy of a registry entry; mutating it has no effect.
type Session struct {
	ID     core.SessionID
	State  SessionState
	RoomID domain.RoomID
	Name   string
	Conn   core.SignalConnection
}

// Registry tracks live connections. It does not know room contents.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

func (r *Registry) BindSignal(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{State: StateConnected, Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) GetSession(sid core.SessionID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return Session{}, false
	}
	return e.snapshot(sid), true
}

// RoomOf reports the room and name of a Joined session.
func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomID, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.State != StateJoined {
		return "", "", false
	}
	return e.RoomID, e.Name, true
}

func (r *Registry) UpdateRoom(sid core.SessionID, roomID domain.RoomID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.State = StateJoined
	e.RoomID = roomID
	e.Name = name
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Str("name", name).Msg("updated room")
	return true
}

func (r *Registry) RemoveRoom(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.State = StateConnected
		e.RoomID = ""
		e.Name = ""
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed room association")
}

// Unbind removes the session and returns its last state with State set to
// StateDisconnected. A second call reports false.
func (r *Registry) Unbind(sid core.SessionID) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return Session{}, false
	}
	delete(r.sessions, sid)
	s := e.snapshot(sid)
	s.State = StateDisconnected
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return s, true
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (e *sessionEntry) snapshot(sid core.SessionID) Session {
	return Session{ID: sid, State: e.State, RoomID: e.RoomID, Name: e.Name, Conn: e.Conn}
}
