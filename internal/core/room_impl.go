package core

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type member struct {
	meta domain.Participant
	conn SignalConnection // nil while Offline
}

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room   *domain.Room
	encode Encoder

	mu      sync.Mutex
	members map[string]*member
	history []domain.Message
}

func NewRoomService(room *domain.Room, encode Encoder) RoomService {
	return &roomImpl{
		room:    room,
		encode:  encode,
		members: make(map[string]*member),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		ID:           r.room.ID,
		Participants: len(r.members),
		Online:       lo.CountBy(lo.Values(r.members), isOnline),
		History:      len(r.history),
	}
}

func (r *roomImpl) Participants() []domain.Participant {
	r.mu.Lock()
	out := lo.MapToSlice(r.members, func(_ string, m *member) domain.Participant { return m.meta })
	r.mu.Unlock()
	slices.SortFunc(out, func(a, b domain.Participant) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *roomImpl) Join(name string, conn SignalConnection) ([]domain.Message, PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[name]
	if !ok {
		m = &member{meta: domain.Participant{Name: name}}
		r.members[name] = m
	}
	m.meta.Status = domain.StatusOnline
	m.conn = conn

	history := r.snapshotLocked()
	res := PublishResult{}
	if r.deliver(conn, domain.HistoryEvent(history)) {
		res.SendTo++
	} else {
		res.Dropped = append(res.Dropped, conn)
	}
	res.merge(r.fanoutLocked(domain.PresenceEvent(domain.EventUserJoined, name), name))

	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("name", name).
		Bool("rejoin", ok).Int("history", len(history)).Msg("participant joined")
	return history, res
}

func (r *roomImpl) Leave(name string, conn SignalConnection) (bool, PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[name]
	if !ok || m.meta.Status == domain.StatusOffline {
		return false, PublishResult{}
	}
	if conn != nil && m.conn != conn {
		log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Str("name", name).Msg("leave from superseded connection ignored")
		return false, PublishResult{}
	}
	m.meta.Status = domain.StatusOffline
	m.conn = nil

	res := r.fanoutLocked(domain.PresenceEvent(domain.EventUserLeft, name), name)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("name", name).Msg("participant left")
	return true, res
}

func (r *roomImpl) Append(msg domain.Message) domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendLocked(msg)
}

func (r *roomImpl) Snapshot() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *roomImpl) Relay(msg domain.Message, exclude string) (domain.Message, PublishResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.appendLocked(msg)
	res := r.fanoutLocked(domain.ChatEvent(stored), exclude)
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Int("seq", stored.Seq).
		Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("message relayed")
	return stored, res
}

func (r *roomImpl) RelayPresence(kind domain.EventKind, name, exclude string) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fanoutLocked(domain.PresenceEvent(kind, name), exclude)
}

// appendLocked assigns the next sequence number; history is never rewritten,
// so len(history) is gap-free and never reused.
func (r *roomImpl) appendLocked(msg domain.Message) domain.Message {
	msg.Seq = len(r.history)
	r.history = append(r.history, msg)
	return msg
}

func (r *roomImpl) snapshotLocked() []domain.Message {
	out := make([]domain.Message, len(r.history))
	copy(out, r.history)
	return out
}

func (r *roomImpl) fanoutLocked(ev domain.Event, exclude string) PublishResult {
	res := PublishResult{}
	frame, err := r.encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("kind", string(ev.Kind)).Msg("encode event")
		return res
	}
	for name, m := range r.members {
		if name == exclude || !isOnline(m) {
			continue
		}
		if err := m.conn.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, m.conn)
			continue
		}
		res.SendTo++
	}
	return res
}

func (r *roomImpl) deliver(conn SignalConnection, ev domain.Event) bool {
	frame, err := r.encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "core.room").Str("kind", string(ev.Kind)).Msg("encode event")
		return false
	}
	return conn.TrySend(frame) == nil
}

func isOnline(m *member) bool {
	return m.meta.Status == domain.StatusOnline && m.conn != nil
}
