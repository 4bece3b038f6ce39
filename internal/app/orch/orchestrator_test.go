package orch

import (
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/core/coretest"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/dkeye/Relay/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newOrchestrator(policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(protocol.Encode),
		Policy:   policy,
		Now:      func() time.Time { return fixedNow },
	}
}

func connect(o *Orchestrator, sid core.SessionID) *coretest.Conn {
	conn := coretest.NewConn()
	o.Registry.BindSignal(sid, conn, nil)
	return conn
}

func TestOrchestrator_EndToEndScenario(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	a := connect(o, "sa")
	b := connect(o, "sb")

	history, err := o.Join("sa", "r1", "A")
	require.NoError(t, err)
	require.Empty(t, history)

	_, err = o.Send("sa", "r1", domain.Message{Text: "hi"})
	require.NoError(t, err)

	history, err = o.Join("sb", "r1", "B")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "A", history[0].Sender)
	assert.Equal(t, "hi", history[0].Text)

	joined := a.OfType(t, domain.EventUserJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, "B", joined[0].Name)

	stored, err := o.Send("sa", "r1", domain.Message{Text: "how can I help?"})
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Seq)
	assert.Equal(t, fixedNow, stored.SentAt)

	got := b.OfType(t, domain.EventChatMessage)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Message.Sender)
	assert.Equal(t, "how can I help?", got[0].Message.Text)
	assert.Empty(t, a.OfType(t, domain.EventChatMessage), "no echo to the sender")

	hist := b.OfType(t, domain.EventMessageHistory)
	require.Len(t, hist, 1)
	require.Len(t, hist[0].Messages, 1)
	assert.Equal(t, "hi", hist[0].Messages[0].Text)
}

func TestOrchestrator_MalformedJoinKeepsSessionConnected(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	conn := connect(o, "s1")

	_, err := o.Join("s1", "r1", "   ")
	require.ErrorIs(t, err, domain.ErrNameEmpty)
	_, err = o.Join("s1", "", "alice")
	require.ErrorIs(t, err, domain.ErrRoomEmpty)
	_, err = o.Join("s1", "r1", strings.Repeat("n", domain.MaxNameLen+1))
	require.ErrorIs(t, err, domain.ErrNameTooLong)
	_, err = o.Join("s1", strings.Repeat("r", domain.MaxRoomIDLen+1), "alice")
	require.ErrorIs(t, err, domain.ErrRoomTooLong)

	sess, ok := o.Registry.GetSession("s1")
	require.True(t, ok)
	require.Equal(t, app.StateConnected, sess.State)
	require.Empty(t, conn.Frames())
	require.Empty(t, o.Rooms.List(), "rejected joins do not create rooms")
}

func TestOrchestrator_SendRules(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	connect(o, "s1")

	_, err := o.Send("s1", "", domain.Message{Text: "too early"})
	require.ErrorIs(t, err, ErrNotJoined)

	_, err = o.Join("s1", "r1", "alice")
	require.NoError(t, err)

	_, err = o.Send("s1", "", domain.Message{Text: "  "})
	require.ErrorIs(t, err, domain.ErrEmptyMessage)

	_, err = o.Send("s1", "r2", domain.Message{Text: "wrong room"})
	require.ErrorIs(t, err, ErrRoomMismatch)

	stored, err := o.Send("s1", "", domain.Message{Sender: "mallory", Text: "ok"})
	require.NoError(t, err)
	require.Equal(t, "alice", stored.Sender, "sender is the joined name")

	room, _ := o.Rooms.Get("r1")
	require.Len(t, room.Snapshot(), 1)
}

func TestOrchestrator_PrepareDoesNotStore(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	connect(o, "s1")

	_, err := o.Prepare("s1", "", domain.Message{Text: "hi"})
	require.ErrorIs(t, err, ErrNotJoined)

	_, err = o.Join("s1", "r1", "alice")
	require.NoError(t, err)

	msg, err := o.Prepare("s1", "r1", domain.Message{Sender: "mallory", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "alice", msg.Sender)
	_, err = o.Prepare("s1", "r2", domain.Message{Text: "hi"})
	require.ErrorIs(t, err, ErrRoomMismatch)

	room, _ := o.Rooms.Get("r1")
	require.Empty(t, room.Snapshot())
}

func TestOrchestrator_DisconnectMarksOffline(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	bob := connect(o, "sb")
	carol := connect(o, "sc")
	watcher := connect(o, "sw")

	_, err := o.Join("sw", "R", "watcher")
	require.NoError(t, err)
	_, err = o.Join("sb", "R", "bob")
	require.NoError(t, err)

	o.OnDisconnect("sb")
	o.OnDisconnect("sb")

	_, err = o.Join("sc", "R", "carol")
	require.NoError(t, err)
	assert.Empty(t, bob.OfType(t, domain.EventUserJoined), "offline bob hears nothing")
	assert.Len(t, carol.OfType(t, domain.EventMessageHistory), 1)

	left := watcher.OfType(t, domain.EventUserLeft)
	require.Len(t, left, 1)
	assert.Equal(t, "bob", left[0].Name)

	room, _ := o.Rooms.Get("R")
	require.Contains(t, room.Participants(), domain.Participant{Name: "bob", Status: domain.StatusOffline})

	_, ok := o.Registry.GetSession("sb")
	require.False(t, ok)
	_, err = o.Join("sb", "R", "bob")
	require.ErrorIs(t, err, ErrUnknownSession)
}

func TestOrchestrator_DisconnectBeforeJoinIsNoop(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	connect(o, "s1")

	o.OnDisconnect("s1")
	o.OnDisconnect("never-bound")

	require.Zero(t, o.Registry.Count())
	require.Empty(t, o.Rooms.List())
}

func TestOrchestrator_ReconnectReplaysHistory(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	connect(o, "s1")
	_, err := o.Join("s1", "R", "alice")
	require.NoError(t, err)
	_, err = o.Send("s1", "", domain.Message{Text: "before"})
	require.NoError(t, err)
	o.OnDisconnect("s1")

	connect(o, "s2")
	_, err = o.Join("s2", "R", "bob")
	require.NoError(t, err)
	_, err = o.Send("s2", "", domain.Message{Text: "while away"})
	require.NoError(t, err)

	again := connect(o, "s3")
	history, err := o.Join("s3", "R", "alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "while away", history[1].Text)
	assert.Empty(t, again.OfType(t, domain.EventChatMessage), "missed messages arrive only through history")
}

func TestOrchestrator_JoinAnotherRoomLeavesThePrevious(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	watcher := connect(o, "sw")
	mover := connect(o, "sm")
	_, err := o.Join("sw", "one", "watcher")
	require.NoError(t, err)
	_, err = o.Join("sm", "one", "mover")
	require.NoError(t, err)

	_, err = o.Join("sm", "two", "mover")
	require.NoError(t, err)

	roomID, name, ok := o.Registry.RoomOf("sm")
	require.True(t, ok)
	require.Equal(t, domain.RoomID("two"), roomID)
	require.Equal(t, "mover", name)
	require.Len(t, watcher.OfType(t, domain.EventUserLeft), 1)

	_, err = o.Send("sw", "", domain.Message{Text: "only room one"})
	require.NoError(t, err)
	require.Empty(t, mover.OfType(t, domain.EventChatMessage))

	require.True(t, o.Leave("sm"))
	require.False(t, o.Leave("sm"))
	sess, _ := o.Registry.GetSession("sm")
	require.Equal(t, app.StateConnected, sess.State)
}

func TestOrchestrator_RepeatedJoinIsIdempotent(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	watcher := connect(o, "sw")
	alice := connect(o, "sa")
	_, err := o.Join("sw", "R", "watcher")
	require.NoError(t, err)

	_, err = o.Join("sa", "R", "alice")
	require.NoError(t, err)
	_, err = o.Join("sa", " R ", "alice")
	require.NoError(t, err)

	assert.Empty(t, watcher.OfType(t, domain.EventUserLeft))
	joined := watcher.OfType(t, domain.EventUserJoined)
	require.Len(t, joined, 2)
	assert.Equal(t, "alice", joined[1].Name)
	require.Len(t, alice.OfType(t, domain.EventMessageHistory), 2)

	room, _ := o.Rooms.Get("R")
	require.Len(t, room.Participants(), 2)
	for _, p := range room.Participants() {
		assert.Equal(t, domain.StatusOnline, p.Status, p.Name)
	}
}

func TestOrchestrator_JoinUnderNewNameLeavesTheOldOne(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	watcher := connect(o, "sw")
	connect(o, "sa")
	_, err := o.Join("sw", "R", "watcher")
	require.NoError(t, err)
	_, err = o.Join("sa", "R", "alice")
	require.NoError(t, err)

	_, err = o.Join("sa", "R", "alicia")
	require.NoError(t, err)

	left := watcher.OfType(t, domain.EventUserLeft)
	require.Len(t, left, 1)
	assert.Equal(t, "alice", left[0].Name)
	_, name, ok := o.Registry.RoomOf("sa")
	require.True(t, ok)
	assert.Equal(t, "alicia", name)
}

func TestOrchestrator_SlowConnectionIsKicked(t *testing.T) {
	o := newOrchestrator(app.SimplePolicy{})
	connect(o, "fast")
	slow := connect(o, "slow")
	_, err := o.Join("fast", "R", "fast")
	require.NoError(t, err)
	_, err = o.Join("slow", "R", "slow")
	require.NoError(t, err)

	slow.SetFull(true)
	_, err = o.Send("fast", "", domain.Message{Text: "burst"})
	require.NoError(t, err)
	require.True(t, slow.Closed())
}

func TestOrchestrator_DropPolicyKeepsSlowConnection(t *testing.T) {
	o := newOrchestrator(app.DropPolicy{})
	connect(o, "fast")
	slow := connect(o, "slow")
	_, err := o.Join("fast", "R", "fast")
	require.NoError(t, err)
	_, err = o.Join("slow", "R", "slow")
	require.NoError(t, err)

	slow.SetFull(true)
	_, err = o.Send("fast", "", domain.Message{Text: "burst"})
	require.NoError(t, err)
	require.False(t, slow.Closed())
}
