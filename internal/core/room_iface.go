package core

import (
	"github.com/dkeye/Relay/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SignalConnection
}

func (p *PublishResult) merge(o PublishResult) {
	p.SendTo += o.SendTo
	p.Dropped = append(p.Dropped, o.Dropped...)
}

type RoomInfo struct {
	ID           domain.RoomID `json:"id"`
	Participants int           `json:"participants"`
	Online       int           `json:"online"`
	History      int           `json:"history"`
}

// RoomService is the core-facing API of a room.
// It owns participants and history but never touches transport resources:
// connections are only referenced, never closed.
// Every method is serialized by a per-room lock.
type RoomService interface {
	Room() *domain.Room
	Info() RoomInfo
	Participants() []domain.Participant

	// Join marks name Online on conn, queues the history snapshot to conn and
	// announces user-joined to the other Online participants, atomically
	// with respect to Append and Relay.
	Join(name string, conn SignalConnection) ([]domain.Message, PublishResult)
	// Leave marks name Offline if conn is still its current connection.
	Leave(name string, conn SignalConnection) (bool, PublishResult)

	Append(msg domain.Message) domain.Message
	Snapshot() []domain.Message

	Relay(msg domain.Message, exclude string) (domain.Message, PublishResult)
	RelayPresence(kind domain.EventKind, name, exclude string) PublishResult
}

// RoomManager owns every room for the process lifetime. Rooms are never removed.
type RoomManager interface {
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	List() []RoomInfo
}
