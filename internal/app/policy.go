package app

import (
	"fmt"

	"github.com/dkeye/Relay/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose outbound buffer was full.
// The frame itself is already lost either way.
type Policy interface {
	OnBackPressure(room core.RoomService, conn core.SignalConnection) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room core.RoomService, conn core.SignalConnection) BackpressureAction {
	return KickMember
}

// DropPolicy keeps slow connections and lets them miss frames.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(room core.RoomService, conn core.SignalConnection) BackpressureAction {
	return DropFrame
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "kick":
		return SimplePolicy{}, nil
	case "drop":
		return DropPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
