package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxRoomIDLen = 128

var (
	ErrRoomEmpty   = errors.New("room id empty")
	ErrRoomTooLong = errors.New("room id too long")
)

// RoomID is opaque; it is produced outside the relay.
type RoomID string

type Room struct {
	ID RoomID
}

// ParseRoomID trims raw and checks it can address a room.
func ParseRoomID(raw string) (RoomID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrRoomEmpty
	}
	if utf8.RuneCountInString(id) > MaxRoomIDLen {
		return "", ErrRoomTooLong
	}
	return RoomID(id), nil
}
