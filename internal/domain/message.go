package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyMessage = errors.New("message has neither text nor attachment")

// Message is immutable once appended to a room history.
// AttachmentRef is carried verbatim; the relay never dereferences it.
type Message struct {
	Seq           int       `json:"seq"`
	Sender        string    `json:"name"`
	Text          string    `json:"text"`
	AttachmentRef string    `json:"file,omitempty"`
	FileName      string    `json:"fileName,omitempty"`
	SentAt        time.Time `json:"sentAt"`
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == "" && m.AttachmentRef == ""
}

func (m Message) Validate() error {
	if m.IsEmpty() {
		return ErrEmptyMessage
	}
	return nil
}
