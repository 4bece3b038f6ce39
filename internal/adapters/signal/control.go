package signal

import (
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	_ = conn.TrySend(protocol.Pong())
}

// reject drops a malformed request. With reject_malformed the offending
// connection alone is told why.
func (ctl *SignalWSController) reject(sid core.SessionID, conn *WsSignalConn, err error) {
	log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("request dropped")
	if !ctl.cfg.RejectMalformed {
		return
	}
	frame, encErr := protocol.Encode(domain.ErrorEvent(err.Error()))
	if encErr != nil {
		log.Error().Err(encErr).Str("module", "signal").Msg("encode error event")
		return
	}
	_ = conn.TrySend(frame)
}
