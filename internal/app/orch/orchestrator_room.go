package orch

import (
	"fmt"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join moves a session into roomID under name and returns the history that was
// queued to its connection. A session already in a different room, or joined
// under a different name, leaves it first. Repeating the same join only
// refreshes the participant.
func (o *Orchestrator) Join(sid core.SessionID, rawRoom, rawName string) ([]domain.Message, error) {
	roomID, err := domain.ParseRoomID(rawRoom)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	name, err := domain.ParseName(rawName)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return nil, fmt.Errorf("join: %w", ErrUnknownSession)
	}
	if sess.State == app.StateJoined && (sess.RoomID != roomID || sess.Name != name) {
		o.Leave(sid)
		log.Info().Str("sid", string(sid)).Str("from_room", string(sess.RoomID)).Msg("left previous room")
	}

	room := o.Rooms.GetOrCreate(roomID)
	history, res := room.Join(name, sess.Conn)
	o.Registry.UpdateRoom(sid, roomID, name)
	o.applyPolicy(room, res)
	log.Info().Str("sid", string(sid)).Str("room", string(roomID)).Str("name", name).Msg("added to room")
	return history, nil
}

// Leave takes a session out of its room but keeps the connection open.
func (o *Orchestrator) Leave(sid core.SessionID) bool {
	sess, ok := o.Registry.GetSession(sid)
	if !ok || sess.State != app.StateJoined {
		return false
	}
	o.leaveRoom(sess)
	o.Registry.RemoveRoom(sid)
	return true
}

// OnDisconnect is the terminal transition. It is safe from any state and
// safe to call more than once.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.Registry.Cancel(sid)
	sess, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	if sess.RoomID != "" {
		o.leaveRoom(sess)
	}
	log.Info().Str("sid", string(sid)).Str("room", string(sess.RoomID)).Msg("disconnected")
}

func (o *Orchestrator) leaveRoom(sess app.Session) {
	room, ok := o.Rooms.Get(sess.RoomID)
	if !ok {
		return
	}
	left, res := room.Leave(sess.Name, sess.Conn)
	if left {
		o.applyPolicy(room, res)
	}
}
