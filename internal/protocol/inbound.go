// Package protocol maps websocket JSON frames to domain values and back.
// Every frame is an object with a "type" discriminator.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/go-playground/validator/v10"
)

const (
	TypeJoinRoom    = "join-room"
	TypeChatMessage = "chat-message"
	TypePing        = "ping"
	TypePong        = "pong"
)

var (
	ErrBadJSON    = errors.New("bad json")
	ErrBadPayload = errors.New("bad payload")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type envelope struct {
	Type string `json:"type"`
}

type JoinRoom struct {
	RoomID string `json:"roomId" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

type ChatMessage struct {
	RoomID  string         `json:"roomId"`
	Message MessagePayload `json:"message"`
}

// MessagePayload mirrors what browsers send. Name is informational only:
// the relay attributes messages to the name the connection joined with.
type MessagePayload struct {
	Name     string `json:"name"`
	Text     string `json:"text" validate:"max=4096"`
	File     string `json:"file"`
	FileName string `json:"fileName" validate:"max=255"`
}

func (p MessagePayload) ToMessage(sender string) domain.Message {
	return domain.Message{
		Sender:        sender,
		Text:          p.Text,
		AttachmentRef: p.File,
		FileName:      p.FileName,
	}
}

// Type returns the discriminator of a raw frame.
func Type(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	return env.Type, nil
}

func DecodeJoinRoom(data []byte) (JoinRoom, error) {
	var p JoinRoom
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	p.RoomID = strings.TrimSpace(p.RoomID)
	p.Name = strings.TrimSpace(p.Name)
	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return p, nil
}

func DecodeChatMessage(data []byte) (ChatMessage, error) {
	var p ChatMessage
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	p.RoomID = strings.TrimSpace(p.RoomID)
	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return p, nil
}
