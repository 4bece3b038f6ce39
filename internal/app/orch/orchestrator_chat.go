package orch

import (
	"fmt"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
)

// Prepare checks that the session may send msg and returns it attributed to
// the joined name. roomHint, when set, must name the joined room. Nothing is
// stored or relayed.
func (o *Orchestrator) Prepare(sid core.SessionID, roomHint string, msg domain.Message) (domain.Message, error) {
	msg, _, err := o.prepare(sid, roomHint, msg)
	return msg, err
}

// Send appends msg to the session's room and relays it to everyone Online
// there except the sender.
func (o *Orchestrator) Send(sid core.SessionID, roomHint string, msg domain.Message) (domain.Message, error) {
	msg, roomID, err := o.prepare(sid, roomHint, msg)
	if err != nil {
		return domain.Message{}, err
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = o.now()
	}

	room := o.Rooms.GetOrCreate(roomID)
	stored, res := room.Relay(msg, msg.Sender)
	o.applyPolicy(room, res)
	return stored, nil
}

func (o *Orchestrator) prepare(sid core.SessionID, roomHint string, msg domain.Message) (domain.Message, domain.RoomID, error) {
	roomID, name, ok := o.Registry.RoomOf(sid)
	if !ok {
		return domain.Message{}, "", fmt.Errorf("send: %w", ErrNotJoined)
	}
	if roomHint != "" && domain.RoomID(roomHint) != roomID {
		return domain.Message{}, "", fmt.Errorf("send %q: %w", roomHint, ErrRoomMismatch)
	}
	msg.Sender = name
	if err := msg.Validate(); err != nil {
		return domain.Message{}, "", fmt.Errorf("send: %w", err)
	}
	return msg, roomID, nil
}
