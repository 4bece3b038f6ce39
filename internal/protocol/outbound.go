package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
)

type HistoryFrame struct {
	Type     string           `json:"type"`
	Messages []domain.Message `json:"messages"`
}

type PresenceFrame struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type ChatFrame struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Encode is the core.Encoder used by rooms.
func Encode(ev domain.Event) (core.Frame, error) {
	var v any
	switch ev.Kind {
	case domain.EventMessageHistory:
		history := ev.History
		if history == nil {
			history = []domain.Message{}
		}
		v = HistoryFrame{Type: string(ev.Kind), Messages: history}
	case domain.EventUserJoined, domain.EventUserLeft:
		v = PresenceFrame{Type: string(ev.Kind), Name: ev.Name}
	case domain.EventChatMessage:
		if ev.Message == nil {
			return nil, fmt.Errorf("encode %s: nil message", ev.Kind)
		}
		v = ChatFrame{Type: string(ev.Kind), Message: *ev.Message}
	case domain.EventError:
		v = ErrorFrame{Type: string(ev.Kind), Error: ev.Error}
	default:
		return nil, fmt.Errorf("encode: unknown event kind %q", ev.Kind)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Kind, err)
	}
	return b, nil
}

func Pong() core.Frame {
	return core.Frame(`{"type":"pong"}`)
}
