package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// RoomManagerImpl is the process-wide room registry. The room map is the only
// state it guards; everything inside a room is serialized by the room itself.
type RoomManagerImpl struct {
	encode core.Encoder

	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager(encode core.Encoder) core.RoomManager {
	return &RoomManagerImpl{
		encode: encode,
		rooms:  make(map[domain.RoomID]core.RoomService),
	}
}

func (f *RoomManagerImpl) GetOrCreate(id domain.RoomID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room
	}
	room = core.NewRoomService(&domain.Room{ID: id}, f.encode)
	f.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Int("rooms", len(f.rooms)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) Get(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	rooms := lo.Values(f.rooms)
	f.mu.RUnlock()

	out := lo.Map(rooms, func(r core.RoomService, _ int) core.RoomInfo { return r.Info() })
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return strings.Compare(string(a.ID), string(b.ID)) })
	return out
}
