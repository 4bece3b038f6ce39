package domain

type EventKind string

const (
	EventMessageHistory EventKind = "message-history"
	EventUserJoined     EventKind = "user-joined"
	EventUserLeft       EventKind = "user-left"
	EventChatMessage    EventKind = "chat-message"
	EventError          EventKind = "error"
)

// Event is an outbound notification addressed to one connection.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Name    string
	Message *Message
	History []Message
	Error   string
}

func HistoryEvent(history []Message) Event {
	return Event{Kind: EventMessageHistory, History: history}
}

func PresenceEvent(kind EventKind, name string) Event {
	return Event{Kind: kind, Name: name}
}

func ChatEvent(msg Message) Event {
	return Event{Kind: EventChatMessage, Message: &msg}
}

func ErrorEvent(reason string) Event {
	return Event{Kind: EventError, Error: reason}
}
