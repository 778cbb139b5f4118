package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	data, err := EncodeMessage(msgType, payload)
	require.NoError(t, err)
	return data
}

// drainFrames decodes everything the session has queued for its write pump.
func drainFrames(t *testing.T, s *Session) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case data := <-s.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(data, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func typesOf(frames []Envelope) []string {
	var types []string
	for _, env := range frames {
		types = append(types, env.Type)
	}
	return types
}

func TestSessionHandshake(t *testing.T) {
	reg := newTestRegistry()
	conn := newScriptedConn(frame(t, MsgHandshake, HandshakeRequest{Nickname: "  Mina "}))
	s := NewSession(conn, reg)

	s.ReadPump()

	assert.Equal(t, "Mina", s.Nickname())
	assert.Contains(t, typesOf(drainFrames(t, s)), MsgRoomList)
	assert.True(t, conn.isClosed())
}

func TestSessionHandshakeBlankNicknameDefaults(t *testing.T) {
	reg := newTestRegistry()
	conn := newScriptedConn(frame(t, MsgHandshake, HandshakeRequest{Nickname: "   "}))
	s := NewSession(conn, reg)

	s.ReadPump()

	assert.Equal(t, "Player", s.Nickname())
}

// A seated client repeating its handshake must not slip back into the lobby
// set; only connections outside a room receive lobby fan-out.
func TestSessionHandshakeWhileSeatedStaysOutOfLobby(t *testing.T) {
	reg := newTestRegistry()
	s := NewSession(newScriptedConn(), reg)
	s.dispatch(&HandshakeRequest{Nickname: "Host"})
	s.dispatch(&CreateRoomRequest{Name: "room-1", DurationSec: 60})
	require.NotNil(t, s.Room())
	drainFrames(t, s)

	s.dispatch(&HandshakeRequest{Nickname: "Renamed"})

	assert.Equal(t, "Renamed", s.Nickname())
	assert.Empty(t, drainFrames(t, s), "no room list while seated")

	// another room appearing must not fan out to the seated session
	other := NewSession(newScriptedConn(), reg)
	other.dispatch(&HandshakeRequest{Nickname: "Other"})
	other.dispatch(&CreateRoomRequest{Name: "room-2", DurationSec: 60})
	assert.Empty(t, drainFrames(t, s))
}

func TestSessionUndecodableFrameIsDropped(t *testing.T) {
	reg := newTestRegistry()
	conn := newScriptedConn(
		[]byte(`garbage`),
		[]byte(`{"type":"no-such-thing"}`),
		frame(t, MsgHandshake, HandshakeRequest{Nickname: "Mina"}),
	)
	s := NewSession(conn, reg)

	s.ReadPump()

	assert.Equal(t, "Mina", s.Nickname(), "bad frames must not kill the pump")
}

func TestSessionCreateRoomFlow(t *testing.T) {
	reg := newTestRegistry()
	conn := newScriptedConn(
		frame(t, MsgHandshake, HandshakeRequest{Nickname: "Host"}),
		frame(t, MsgCreateRoom, CreateRoomRequest{Name: "room-1", DurationSec: 60, ChosenTeam: TeamYellow}),
	)
	s := NewSession(conn, reg)

	s.ReadPump()

	types := typesOf(drainFrames(t, s))
	assert.Contains(t, types, MsgRoomList)
	assert.Contains(t, types, MsgEnterWaitingRoom)

	// the pump ended, so teardown freed the seat and the empty room is gone
	assert.Nil(t, s.Room())
	assert.Empty(t, reg.roomSummaries())
	assert.True(t, conn.isClosed())
}

func TestSessionCreateIgnoredWhileSeated(t *testing.T) {
	reg := newTestRegistry()
	s := NewSession(newScriptedConn(), reg)
	s.dispatch(&HandshakeRequest{Nickname: "Host"})
	s.dispatch(&CreateRoomRequest{Name: "room-1", DurationSec: 60})
	require.NotNil(t, s.Room())

	s.dispatch(&CreateRoomRequest{Name: "room-2", DurationSec: 60})

	assert.Equal(t, "room-1", s.Room().Name())
	assert.Len(t, reg.roomSummaries(), 1)
}

func TestSessionLeaveRoomReturnsToLobby(t *testing.T) {
	reg := newTestRegistry()
	s := NewSession(newScriptedConn(), reg)
	s.dispatch(&HandshakeRequest{Nickname: "Host"})
	s.dispatch(&CreateRoomRequest{Name: "room-1", DurationSec: 60})
	require.NotNil(t, s.Room())
	drainFrames(t, s)

	s.dispatch(&LeaveRoomRequest{})

	assert.Nil(t, s.Room())
	types := typesOf(drainFrames(t, s))
	assert.Contains(t, types, MsgReturnToLobby)
	assert.Contains(t, types, MsgRoomList)
	assert.Empty(t, reg.roomSummaries())
}

func TestSessionRoomScopedRequestsNeedARoom(t *testing.T) {
	reg := newTestRegistry()
	s := NewSession(newScriptedConn(), reg)
	s.dispatch(&HandshakeRequest{Nickname: "Lone"})
	drainFrames(t, s)

	assert.NotPanics(t, func() {
		s.dispatch(&ToggleReadyRequest{Ready: true})
		s.dispatch(&StartGameRequest{})
		s.dispatch(&LeaveRoomRequest{})
		s.dispatch(&WordInputRequest{Team: TeamYellow, Text: "apple"})
		s.dispatch(&SentenceInputRequest{Team: TeamYellow, Text: "hello"})
		s.dispatch(&ChatRequest{Text: "hello"})
	})
	assert.Empty(t, drainFrames(t, s))
}

func TestSessionTeardownRunsOnce(t *testing.T) {
	reg := newTestRegistry()
	conn := newScriptedConn()
	s := NewSession(conn, reg)
	s.dispatch(&HandshakeRequest{Nickname: "Host"})
	s.dispatch(&CreateRoomRequest{Name: "room-1", DurationSec: 60})
	require.NotNil(t, s.Room())

	s.teardown()
	assert.NotPanics(t, s.teardown)

	assert.True(t, conn.isClosed())
	assert.Nil(t, s.Room())
	assert.Empty(t, reg.roomSummaries())

	// a player gone through teardown no longer receives lobby fan-out
	other := NewSession(newScriptedConn(), reg)
	other.dispatch(&HandshakeRequest{Nickname: "Other"})
	drainFrames(t, s)
	other.dispatch(&CreateRoomRequest{Name: "room-2", DurationSec: 60})
	assert.Empty(t, drainFrames(t, s))
}

func TestSessionSendDropsWhenBufferFull(t *testing.T) {
	reg := newTestRegistry()
	s := NewSession(newScriptedConn(), reg)

	assert.NotPanics(t, func() {
		for i := 0; i < sendBufferSize+10; i++ {
			s.Send(MsgTick, nil)
		}
	})
	assert.Len(t, drainFrames(t, s), sendBufferSize)
}

func TestSessionWritePumpFlushes(t *testing.T) {
	reg := newTestRegistry()
	conn := newScriptedConn()
	s := NewSession(conn, reg)
	s.Send(MsgTick, nil)

	done := make(chan struct{})
	go func() {
		s.WritePump()
		close(done)
	}()
	assert.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return len(conn.writes) == 1
	}, time.Second, 5*time.Millisecond)

	s.teardown()
	<-done
	assert.True(t, conn.isClosed())
}
