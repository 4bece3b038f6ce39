// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxNameLen = 64

var (
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)

type Status int

const (
	StatusOffline Status = iota
	StatusOnline
)

func (s Status) String() string {
	if s == StatusOnline {
		return "online"
	}
	return "offline"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Participant is keyed by Name inside one room. Names are compared as-is:
// case-sensitive and not normalized beyond trimming.
type Participant struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// ParseName trims raw and checks it is usable as a participant key.
func ParseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}
