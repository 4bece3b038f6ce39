package signal

import (
	"errors"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrRateLimited = errors.New("rate limited")

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	p, err := protocol.DecodeJoinRoom(data)
	if err != nil {
		ctl.reject(sid, conn, err)
		return
	}
	history, err := ctl.Orch.Join(sid, p.RoomID, p.Name)
	if err != nil {
		ctl.reject(sid, conn, err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Int("history", len(history)).Msg("join")
}

func (ctl *SignalWSController) handleChat(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	p, err := protocol.DecodeChatMessage(data)
	if err != nil {
		ctl.reject(sid, conn, err)
		return
	}
	msg, err := ctl.Orch.Prepare(sid, p.RoomID, p.Message.ToMessage(""))
	if err != nil {
		ctl.reject(sid, conn, err)
		return
	}
	// Only relayable messages count against the window.
	if !ctl.limiter.Allow(sid) {
		ctl.reject(sid, conn, ErrRateLimited)
		return
	}
	msg, err = ctl.Orch.Send(sid, p.RoomID, msg)
	if err != nil {
		ctl.reject(sid, conn, err)
		return
	}
	log.Debug().Str("module", "signal").Str("sid", string(sid)).Int("seq", msg.Seq).Msg("chat message")
}
