package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "trimmed", raw: "  alice ", want: "alice"},
		{name: "case kept", raw: "Alice", want: "Alice"},
		{name: "empty", raw: "", wantErr: ErrNameEmpty},
		{name: "blank", raw: " \t ", wantErr: ErrNameEmpty},
		{name: "max runes", raw: strings.Repeat("é", MaxNameLen), want: strings.Repeat("é", MaxNameLen)},
		{name: "too long", raw: strings.Repeat("a", MaxNameLen+1), wantErr: ErrNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseRoomID(t *testing.T) {
	id, err := ParseRoomID(" support-111 ")
	require.NoError(t, err)
	require.Equal(t, RoomID("support-111"), id)

	_, err = ParseRoomID("   ")
	require.ErrorIs(t, err, ErrRoomEmpty)

	_, err = ParseRoomID(strings.Repeat("r", MaxRoomIDLen+1))
	require.ErrorIs(t, err, ErrRoomTooLong)
}

func TestMessage_Validate(t *testing.T) {
	require.ErrorIs(t, Message{}.Validate(), ErrEmptyMessage)
	require.ErrorIs(t, Message{Text: "  \n"}.Validate(), ErrEmptyMessage)
	require.NoError(t, Message{Text: "hi"}.Validate())
	require.NoError(t, Message{AttachmentRef: "blob:http://x/1", FileName: "a.png"}.Validate())
}

func TestParticipant_StatusJSON(t *testing.T) {
	b, err := json.Marshal(Participant{Name: "bob", Status: StatusOffline})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"bob","status":"offline"}`, string(b))
}
